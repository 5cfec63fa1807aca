package escalation

// QuestionSeparator joins questions appended to one PENDING escalation.
const QuestionSeparator = ","

// RecordAction says how a new escalated question is persisted.
type RecordAction int

const (
	// ActionCreate inserts a new PENDING escalation.
	ActionCreate RecordAction = iota
	// ActionAppend extends the question of the existing PENDING escalation.
	ActionAppend
)

// RecordInput is the pre-fetched state the record planner needs.
type RecordInput struct {
	Question        string
	HasPending      bool
	PendingQuestion string
}

// RecordPlan is the planned write for an escalated question.
type RecordPlan struct {
	Action   RecordAction
	Question string // full question text to store
	Status   Status
}

// PlanRecord decides whether a question opens a new escalation or is
// appended to the session's open one.
func PlanRecord(in RecordInput) RecordPlan {
	if in.HasPending {
		return RecordPlan{
			Action:   ActionAppend,
			Question: in.PendingQuestion + QuestionSeparator + in.Question,
			Status:   StatusPending,
		}
	}
	return RecordPlan{
		Action:   ActionCreate,
		Question: in.Question,
		Status:   InitialStatus(),
	}
}
