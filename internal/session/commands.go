package session

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pixil98/go-satchel/internal/actions"
	"github.com/pixil98/go-satchel/internal/display"
	"github.com/pixil98/go-satchel/internal/inventory"
	"github.com/pixil98/go-satchel/internal/items"
	"github.com/pixil98/go-satchel/internal/stats"
	"github.com/pixil98/go-satchel/internal/transfer"
)

// CommandFunc runs one command for an agent and returns the text to show.
type CommandFunc func(ctx context.Context, a *Agent, args []string) (string, error)

type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	minArgs int
	maxArgs int
	run     CommandFunc
}

// Handler maps command words to their implementations.
type Handler struct {
	commands map[string]*command
	ordered  []*command
}

// NewHandler creates a handler with every built-in command registered.
func NewHandler() *Handler {
	h := &Handler{
		commands: make(map[string]*command),
	}

	h.register(&command{name: "inventory", aliases: []string{"i", "inv"}, usage: "inventory", help: "List your backpack.", run: cmdInventory})
	h.register(&command{name: "stash", usage: "stash", help: "List your stash.", run: cmdStash})
	h.register(&command{name: "equipment", aliases: []string{"eq"}, usage: "equipment", help: "Show what you have equipped.", run: cmdEquipment})
	h.register(&command{name: "stats", aliases: []string{"score"}, usage: "stats", help: "Show your stats.", run: cmdStats})
	h.register(&command{name: "look", aliases: []string{"l"}, usage: "look <slot>", help: "Describe the item in a slot.", minArgs: 1, maxArgs: 1, run: cmdLook})
	h.register(&command{name: "actions", usage: "actions <slot>", help: "List what you can do with an item.", minArgs: 1, maxArgs: 1, run: cmdActions})
	h.register(&command{name: "use", usage: "use <slot>", help: "Use a consumable.", minArgs: 1, maxArgs: 1, run: runnerCommand(actions.ActionUse)})
	h.register(&command{name: "equip", aliases: []string{"wear", "wield"}, usage: "equip <slot>", help: "Equip an item.", minArgs: 1, maxArgs: 1, run: runnerCommand(actions.ActionEquip)})
	h.register(&command{name: "unequip", aliases: []string{"remove"}, usage: "unequip <slot>", help: "Unequip an item.", minArgs: 1, maxArgs: 1, run: runnerCommand(actions.ActionUnequip)})
	h.register(&command{name: "drop", usage: "drop <slot>", help: "Drop a whole stack.", minArgs: 1, maxArgs: 1, run: runnerCommand(actions.ActionDrop)})
	h.register(&command{name: "split", usage: "split <slot> [count]", help: "Split a stack into the first empty slot.", minArgs: 1, maxArgs: 2, run: cmdSplit})
	h.register(&command{name: "swap", usage: "swap <slot> <slot>", help: "Exchange two backpack slots.", minArgs: 2, maxArgs: 2, run: cmdSwap})
	h.register(&command{name: "move", aliases: []string{"drag"}, usage: "move <slot> <slot>", help: "Drag a stack onto another slot, merging or swapping as needed.", minArgs: 2, maxArgs: 2, run: cmdMove})
	h.register(&command{name: "deposit", usage: "deposit <slot>", help: "Move a backpack stack into the stash.", minArgs: 1, maxArgs: 1, run: transferCommand(BackpackName, StashName)})
	h.register(&command{name: "withdraw", usage: "withdraw <slot>", help: "Move a stash stack into the backpack.", minArgs: 1, maxArgs: 1, run: transferCommand(StashName, BackpackName)})
	h.register(&command{name: "get", aliases: []string{"take"}, usage: "get <item> [quantity]", help: "Pick up items.", minArgs: 1, maxArgs: 2, run: cmdGet})
	h.register(&command{name: "catalog", usage: "catalog", help: "List items you can get.", run: cmdCatalog})
	h.register(&command{name: "expand", usage: "expand <amount>", help: "Add slots to your backpack.", minArgs: 1, maxArgs: 1, run: cmdExpand})
	h.register(&command{name: "help", aliases: []string{"?"}, usage: "help [command]", help: "List commands.", maxArgs: 1, run: h.cmdHelp})
	h.register(&command{name: "quit", usage: "quit", help: "Leave.", run: cmdQuit})

	return h
}

func (h *Handler) register(c *command) {
	h.ordered = append(h.ordered, c)
	h.commands[c.name] = c
	for _, a := range c.aliases {
		h.commands[a] = c
	}
}

// Lookup returns the canonical name for a command word.
func (h *Handler) Lookup(word string) (string, bool) {
	c, ok := h.commands[strings.ToLower(word)]
	if !ok {
		return "", false
	}
	return c.name, true
}

// Exec executes a command with the given arguments.
func (h *Handler) Exec(ctx context.Context, a *Agent, cmdName string, args ...string) (string, error) {
	c, ok := h.commands[strings.ToLower(cmdName)]
	if !ok {
		return "", NewUserError(fmt.Sprintf("Unknown command: %s", cmdName))
	}

	if len(args) < c.minArgs || len(args) > c.maxArgs {
		return "", NewUserError(fmt.Sprintf("Usage: %s", c.usage))
	}

	return c.run(ctx, a, args)
}

func (h *Handler) cmdHelp(_ context.Context, _ *Agent, args []string) (string, error) {
	if len(args) == 1 {
		c, ok := h.commands[strings.ToLower(args[0])]
		if !ok {
			return "", NewUserError(fmt.Sprintf("No help for %s.", args[0]))
		}
		out := fmt.Sprintf("Usage: %s\n%s", c.usage, c.help)
		if len(c.aliases) > 0 {
			out += fmt.Sprintf("\nAliases: %s", strings.Join(c.aliases, ", "))
		}
		return out, nil
	}

	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, c := range h.ordered {
		fmt.Fprintf(&sb, "  %-24s %s\n", c.usage, c.help)
	}
	sb.WriteString("Slots are numbered from 0. Prefix a slot with 's' to address the stash.")
	return sb.String(), nil
}

// slotRef addresses one slot of one of the agent's stores.
type slotRef struct {
	store string
	index int
}

func (r slotRef) String() string {
	if r.store == StashName {
		return fmt.Sprintf("s%d", r.index)
	}
	return strconv.Itoa(r.index)
}

// parseSlot reads "N" or "bN" as a backpack slot and "sN" as a stash slot.
func parseSlot(raw string) (slotRef, error) {
	s := strings.ToLower(raw)
	ref := slotRef{store: BackpackName}
	switch {
	case strings.HasPrefix(s, "s"):
		ref.store = StashName
		s = s[1:]
	case strings.HasPrefix(s, "b"):
		s = s[1:]
	}

	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return slotRef{}, NewUserError(fmt.Sprintf("%q is not a slot.", raw))
	}
	ref.index = i
	return ref, nil
}

func (a *Agent) store(name string) *inventory.Store {
	if name == StashName {
		return a.Stash
	}
	return a.Backpack
}

// occupied resolves raw to a non-empty slot.
func (a *Agent) occupied(raw string) (slotRef, *items.Stack, error) {
	ref, err := parseSlot(raw)
	if err != nil {
		return slotRef{}, nil, err
	}
	rec := a.store(ref.store).At(ref.index)
	if rec == nil {
		return slotRef{}, nil, NewUserError(fmt.Sprintf("Slot %s is empty.", ref))
	}
	return ref, rec, nil
}

// backpackSlot resolves raw to an occupied backpack slot.
func (a *Agent) backpackSlot(raw string) (int, *items.Stack, error) {
	ref, rec, err := a.occupied(raw)
	if err != nil {
		return 0, nil, err
	}
	if ref.store != BackpackName {
		return 0, nil, NewUserError("You need to take that out of your stash first.")
	}
	return ref.index, rec, nil
}

func parseCount(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, NewUserError(fmt.Sprintf("%q is not a positive number.", raw))
	}
	return n, nil
}

func cmdInventory(_ context.Context, a *Agent, _ []string) (string, error) {
	return display.RenderSlots("Backpack", a.Backpack.Slots(), a.Runner.EquippedHandles(), ""), nil
}

func cmdStash(_ context.Context, a *Agent, _ []string) (string, error) {
	return display.RenderSlots("Stash", a.Stash.Slots(), nil, "s"), nil
}

func cmdEquipment(_ context.Context, a *Agent, _ []string) (string, error) {
	return display.RenderEquipment(a.Runner.Equipped()), nil
}

func cmdStats(_ context.Context, a *Agent, _ []string) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", display.Capitalize(a.Name))
	fmt.Fprintf(&sb, "  %-14s %d/%d\n", "HP:", a.Stats.CurrentHP(), a.Stats.MaxHP())
	fmt.Fprintf(&sb, "  %-14s %d/%d\n", "MP:", a.Stats.CurrentMP(), a.Stats.MaxMP())
	for _, stat := range items.StatTypes {
		if stat == items.StatMaxHP || stat == items.StatMaxMP {
			continue
		}
		value := strconv.Itoa(a.Stats.Get(stat))
		if stats.IsSpeed(stat) {
			value = fmt.Sprintf("%.2f", a.Stats.Speed(stat))
		}
		if bonus := a.Stats.Bonus(stat); bonus != 0 {
			value += fmt.Sprintf(" (%+d)", bonus)
		}
		fmt.Fprintf(&sb, "  %-14s %s\n", display.Title(stat.String())+":", value)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func cmdLook(_ context.Context, a *Agent, args []string) (string, error) {
	_, rec, err := a.occupied(args[0])
	if err != nil {
		return "", err
	}
	def, _ := a.catalog.Definition(rec.ItemID)
	return strings.TrimRight(display.NewTooltip(*rec, def).String(), "\n"), nil
}

func cmdActions(_ context.Context, a *Agent, args []string) (string, error) {
	i, rec, err := a.backpackSlot(args[0])
	if err != nil {
		return "", err
	}
	acts := a.Runner.Actions(i)
	if len(acts) == 0 {
		return fmt.Sprintf("There is nothing you can do with %s.", rec.Name()), nil
	}
	names := make([]string, len(acts))
	for j, act := range acts {
		names[j] = string(act)
	}
	return fmt.Sprintf("%s: %s", rec.Name(), strings.Join(names, ", ")), nil
}

var actionVerbs = map[actions.Action]string{
	actions.ActionUse:     "use",
	actions.ActionEquip:   "equip",
	actions.ActionUnequip: "unequip",
	actions.ActionDrop:    "drop",
}

// runnerCommand runs a single-slot item action through the agent's runner.
func runnerCommand(action actions.Action) CommandFunc {
	return func(_ context.Context, a *Agent, args []string) (string, error) {
		i, rec, err := a.backpackSlot(args[0])
		if err != nil {
			return "", err
		}
		name := rec.Name()
		verb := actionVerbs[action]

		if !slices.Contains(a.Runner.Actions(i), action) {
			return "", NewUserError(fmt.Sprintf("You can't %s %s.", verb, name))
		}
		if !a.Runner.Do(action, i) {
			return "", NewUserError(fmt.Sprintf("You fail to %s %s.", verb, name))
		}

		if action == actions.ActionDrop && rec.Quantity > 1 {
			return fmt.Sprintf("You drop %d x %s.", rec.Quantity, name), nil
		}
		return fmt.Sprintf("You %s %s.", verb, name), nil
	}
}

func cmdSplit(_ context.Context, a *Agent, args []string) (string, error) {
	i, rec, err := a.backpackSlot(args[0])
	if err != nil {
		return "", err
	}
	name := rec.Name()

	if len(args) == 1 {
		if !a.Runner.Split(i) {
			return "", NewUserError(fmt.Sprintf("You can't split %s.", name))
		}
		return fmt.Sprintf("You split %s.", name), nil
	}

	n, err := parseCount(args[1])
	if err != nil {
		return "", err
	}
	if !a.Backpack.TrySplitStack(i, n) {
		return "", NewUserError(fmt.Sprintf("You can't split %d from %s.", n, name))
	}
	return fmt.Sprintf("You split %d %s into a new stack.", n, name), nil
}

func cmdSwap(_ context.Context, a *Agent, args []string) (string, error) {
	from, err := parseSlot(args[0])
	if err != nil {
		return "", err
	}
	to, err := parseSlot(args[1])
	if err != nil {
		return "", err
	}
	if from.store != BackpackName || to.store != BackpackName {
		return "", NewUserError("Swap only works within your backpack. Try move.")
	}
	if !a.Backpack.SwapItems(from.index, to.index) {
		return "", NewUserError("You can't swap those slots.")
	}
	return fmt.Sprintf("You swap slots %s and %s.", from, to), nil
}

func cmdMove(_ context.Context, a *Agent, args []string) (string, error) {
	from, rec, err := a.occupied(args[0])
	if err != nil {
		return "", err
	}
	to, err := parseSlot(args[1])
	if err != nil {
		return "", err
	}
	dst := a.store(to.store)
	if to.index >= dst.Capacity() {
		return "", NewUserError(fmt.Sprintf("There is no slot %s.", to))
	}

	name := rec.Name()
	res := transfer.Resolve(
		transfer.NewSlotEndpoint(a.store(from.store), from.index),
		transfer.NewSlotEndpoint(dst, to.index),
	)
	switch res.Outcome {
	case transfer.OutcomeMerged:
		return fmt.Sprintf("You add %d %s to slot %s.", res.Moved, name, to), nil
	case transfer.OutcomeSwapped:
		return fmt.Sprintf("You swap %s with slot %s.", name, to), nil
	case transfer.OutcomeMoved:
		return fmt.Sprintf("You move %s to slot %s.", name, to), nil
	default:
		return "", NewUserError(fmt.Sprintf("You can't move %s there.", name))
	}
}

// transferCommand moves a whole stack between two of the agent's stores.
func transferCommand(from, to string) CommandFunc {
	return func(_ context.Context, a *Agent, args []string) (string, error) {
		ref, err := parseSlot(args[0])
		if err != nil {
			return "", err
		}
		if ref.store == StashName && from != StashName {
			return "", NewUserError(fmt.Sprintf("Give a %s slot number.", from))
		}
		rec := a.store(from).At(ref.index)
		if rec == nil {
			return "", NewUserError(fmt.Sprintf("That %s slot is empty.", from))
		}
		name, qty := rec.Name(), rec.Quantity

		if !a.Stores.TryTransferStack(from, ref.index, to) {
			return "", NewUserError(fmt.Sprintf("There is no room in your %s.", to))
		}
		if left := a.store(from).At(ref.index); left != nil && left.Handle == rec.Handle {
			return fmt.Sprintf("You move %d of %d %s to your %s.", qty-left.Quantity, qty, name, to), nil
		}
		return fmt.Sprintf("You move %s to your %s.", name, to), nil
	}
}

func cmdGet(_ context.Context, a *Agent, args []string) (string, error) {
	qty := 1
	if len(args) == 2 {
		n, err := parseCount(args[1])
		if err != nil {
			return "", err
		}
		qty = n
	}

	res, err := a.Give(strings.ToLower(args[0]), qty)
	if err != nil {
		return "", err
	}
	def, _ := a.catalog.Definition(strings.ToLower(args[0]))
	name := def.DisplayName

	switch {
	case res.Placed == 0:
		return "", NewUserError("Your backpack is full.")
	case res.Partial():
		return fmt.Sprintf("You pick up %d x %s. %d would not fit.", res.Placed, name, res.Remaining), nil
	case res.Placed > 1:
		return fmt.Sprintf("You pick up %d x %s.", res.Placed, name), nil
	default:
		return fmt.Sprintf("You pick up %s.", name), nil
	}
}

func cmdCatalog(_ context.Context, a *Agent, _ []string) (string, error) {
	ids := a.catalog.IDs()
	if len(ids) == 0 {
		return "There is nothing to get.", nil
	}
	return "Items: " + strings.Join(ids, ", "), nil
}

func cmdExpand(_ context.Context, a *Agent, args []string) (string, error) {
	n, err := parseCount(args[0])
	if err != nil {
		return "", err
	}
	if !a.Backpack.ExpandCapacity(n) {
		return "", NewUserError("Your backpack can't grow any more.")
	}
	return fmt.Sprintf("Your backpack now holds %d slots.", a.Backpack.Capacity()), nil
}

func cmdQuit(_ context.Context, _ *Agent, _ []string) (string, error) {
	return "", ErrQuit
}
