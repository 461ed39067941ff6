package hermes

import "testing"

func TestSubjects(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{SubjectClassificationCompleted("3017620422003"), "nutrisort.classification.3017620422003.completed"},
		{SubjectClassificationCompleted("a.b c*"), "nutrisort.classification.a_b_c_.completed"},
		{SubjectClassificationCompleted(""), "nutrisort.classification._.completed"},
		{SubjectBatchCompleted("run-1"), "nutrisort.batch.run-1.completed"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, tt.got)
		}
	}
}
