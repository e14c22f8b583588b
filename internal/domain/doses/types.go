package doses

import "fmt"

// Status define el estado de una toma. Enum cerrado: TAKEN/MISSED/SKIPPED son
// "pegajosos" (vienen de un log persistido); UPCOMING/DUE son transitorios y se
// recalculan en cada consulta según la hora.
// @Enum UPCOMING, DUE, TAKEN, MISSED, SKIPPED
type Status string

const (
	StatusUpcoming Status = "UPCOMING"
	StatusDue      Status = "DUE"
	StatusTaken    Status = "TAKEN"
	StatusMissed   Status = "MISSED"
	StatusSkipped  Status = "SKIPPED"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusUpcoming, StatusDue, StatusTaken, StatusMissed, StatusSkipped:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown dose status: %q", s)
}
