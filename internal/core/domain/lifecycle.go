package domain

// Status is the server-reported workflow status of a document.
type Status string

// Document statuses.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusSigned   Status = "signed"
	StatusArchived Status = "archived"
)

// Action is a workflow action the server may permit on a document.
type Action string

// Workflow actions. Resubmit is an action, not a status: it appends a new
// version while the document remains pending or rejected.
const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionArchive  Action = "archive"
	ActionESign    Action = "esign"
	ActionResubmit Action = "resubmit"
)

// actionOrder fixes a stable display order for affordances.
var actionOrder = []Action{ActionApprove, ActionReject, ActionESign, ActionResubmit, ActionArchive}

// transitions maps each status-changing action to the optimistic next
// status. The table is a rendering hint only: the server's returned
// representation is always authoritative, and server-side policy may
// diverge (e.g. additional approvers required).
var transitions = map[Action]Status{
	ActionApprove: StatusApproved,
	ActionReject:  StatusRejected,
	ActionArchive: StatusArchived,
	ActionESign:   StatusSigned,
}

// ParseAction validates a user-supplied action name.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	for _, known := range actionOrder {
		if a == known {
			return a, nil
		}
	}
	return "", ErrActionRejected
}

// ExpectedStatus returns the optimistic status a successful action leads
// to, pending server confirmation. Resubmit leaves the status unchanged
// and reports ok=false.
func ExpectedStatus(action Action) (Status, bool) {
	next, ok := transitions[action]
	return next, ok
}

// Affordances returns the actions to offer for a document, in stable
// order. It is strictly the intersection of the known action set with the
// server's allowed_actions; the client never recomputes permissions from
// role or status fields.
func Affordances(doc *Document) []Action {
	var out []Action
	for _, a := range actionOrder {
		if doc.Allows(a) {
			out = append(out, a)
		}
	}
	return out
}
