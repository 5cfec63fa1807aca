package escalation

import "testing"

func TestPlanRecord(t *testing.T) {
	tests := []struct {
		name         string
		in           RecordInput
		wantAction   RecordAction
		wantQuestion string
	}{
		{
			name:         "first question opens escalation",
			in:           RecordInput{Question: "Do you do nails?"},
			wantAction:   ActionCreate,
			wantQuestion: "Do you do nails?",
		},
		{
			name:         "second question appends with comma",
			in:           RecordInput{Question: "B", HasPending: true, PendingQuestion: "A"},
			wantAction:   ActionAppend,
			wantQuestion: "A,B",
		},
		{
			name:         "third question keeps accumulating",
			in:           RecordInput{Question: "C", HasPending: true, PendingQuestion: "A,B"},
			wantAction:   ActionAppend,
			wantQuestion: "A,B,C",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanRecord(tt.in)
			if plan.Action != tt.wantAction {
				t.Errorf("Action = %v, want %v", plan.Action, tt.wantAction)
			}
			if plan.Question != tt.wantQuestion {
				t.Errorf("Question = %q, want %q", plan.Question, tt.wantQuestion)
			}
			if plan.Status != StatusPending {
				t.Errorf("Status = %q, want PENDING", plan.Status)
			}
		})
	}
}
