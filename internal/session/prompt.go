package session

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var errTooManyTries = errors.New("too many tries")

// question is asked on a connection until check accepts the trimmed answer.
// A rejected answer shows the check's error and counts against attempts;
// zero attempts means no limit.
type question struct {
	text     string
	check    func(answer string) error
	attempts int
}

func (q question) ask(w io.Writer, r *bufio.Reader) (string, error) {
	for failed := 0; q.attempts == 0 || failed < q.attempts; failed++ {
		if _, err := io.WriteString(w, q.text); err != nil {
			return "", err
		}

		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return "", err
		}
		answer := strings.TrimSpace(line)

		if q.check == nil {
			return answer, nil
		}
		cerr := q.check(answer)
		if cerr == nil {
			return answer, nil
		}
		if _, err := io.WriteString(w, cerr.Error()+"\n"); err != nil {
			return "", err
		}
	}
	return "", errTooManyTries
}
