package application

import "strings"

// Status is the position of an application in the hiring pipeline
type Status string

const (
	StatusSolicitud    Status = "SOLICITUD"    // Submitted by the candidate
	StatusEntrevista   Status = "ENTREVISTA"   // Interviewing
	StatusEvaluaciones Status = "EVALUACIONES" // Assessments
	StatusContratacion Status = "CONTRATACION" // Hired, document checklist unlocked
	StatusRechazada    Status = "RECHAZADA"    // Rejected by the company
	StatusRetirada     Status = "RETIRADA"     // Withdrawn by the candidate
)

// StatusInfo is the display and ordering metadata of a status
type StatusInfo struct {
	Status   Status `json:"status"`
	Label    string `json:"label"`
	Rank     int    `json:"rank"` // -1 for statuses outside the forward pipeline
	Terminal bool   `json:"terminal"`
}

var statusTable = []StatusInfo{
	{Status: StatusSolicitud, Label: "Solicitud", Rank: 0},
	{Status: StatusEntrevista, Label: "Entrevista", Rank: 1},
	{Status: StatusEvaluaciones, Label: "Evaluaciones", Rank: 2},
	{Status: StatusContratacion, Label: "Contratación", Rank: 3, Terminal: true},
	{Status: StatusRechazada, Label: "Rechazada", Rank: -1, Terminal: true},
	{Status: StatusRetirada, Label: "Retirada", Rank: -1, Terminal: true},
}

var statusIndex = func() map[Status]StatusInfo {
	m := make(map[Status]StatusInfo, len(statusTable))
	for _, info := range statusTable {
		m[info.Status] = info
	}
	return m
}()

// AllStatuses returns the metadata of every status in pipeline order
func AllStatuses() []StatusInfo {
	return append([]StatusInfo(nil), statusTable...)
}

// Info returns the metadata of s
func (s Status) Info() (StatusInfo, bool) {
	info, ok := statusIndex[s]
	return info, ok
}

func (s Status) IsValid() bool {
	_, ok := statusIndex[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return statusIndex[s].Terminal
}

// Rank returns the pipeline rank and whether s is ranked at all
func (s Status) Rank() (int, bool) {
	info, ok := statusIndex[s]
	if !ok || info.Rank < 0 {
		return 0, false
	}
	return info.Rank, true
}

func (s Status) Label() string {
	if info, ok := statusIndex[s]; ok {
		return info.Label
	}
	return string(s)
}

func (s Status) String() string { return string(s) }

// ParseStatus accepts any casing and surrounding whitespace
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.IsValid()
}

// CanTransition reports whether an application may move from current to next.
// Equal states are always allowed. Terminal states admit nothing else.
// RECHAZADA and RETIRADA are reachable from any non-terminal state; any
// other move must not lower the pipeline rank.
func CanTransition(current, next Status) bool {
	if !current.IsValid() || !next.IsValid() {
		return false
	}
	if current == next {
		return true
	}
	if current.IsTerminal() {
		return false
	}
	if next == StatusRechazada || next == StatusRetirada {
		return true
	}

	cur, ok := current.Rank()
	if !ok {
		return false
	}
	nxt, ok := next.Rank()
	if !ok {
		return false
	}
	return nxt >= cur
}

// NextStatuses lists the statuses current can legally move to, excluding itself
func NextStatuses(current Status) []Status {
	var out []Status
	for _, info := range statusTable {
		if info.Status != current && CanTransition(current, info.Status) {
			out = append(out, info.Status)
		}
	}
	return out
}
