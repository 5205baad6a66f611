package soap

import (
	"regexp"
	"strings"
	"testing"

	"github.com/hyperifyio/careflow/internal/outcome"
)

func TestGenerate_FollowUpNote(t *testing.T) {
	note := NewGenerator().Generate("Mr. Smith returns for follow-up on type 2 diabetes. Blood sugar 140-180 mg/dL. Reports fatigue. No chest pain or shortness of breath.")
	if note.Status != outcome.StatusSuccess {
		t.Fatalf("unexpected status %+v", note)
	}
	if !strings.Contains(note.Subjective, "Reports fatigue") {
		t.Fatalf("expected fatigue in subjective, got %q", note.Subjective)
	}
	if !strings.Contains(note.Objective, "Blood sugar 140-180") {
		t.Fatalf("expected blood sugar in objective, got %q", note.Objective)
	}
	if strings.Contains(note.Subjective, "Blood sugar") || strings.Contains(note.Objective, "fatigue") {
		t.Fatalf("sentence assigned to two sections: %+v", note)
	}
	if note.Plan != "Mr. Smith returns for follow-up on type 2 diabetes." {
		t.Fatalf("unexpected plan %q", note.Plan)
	}
}

func TestGenerate_SubjectiveOnly(t *testing.T) {
	note := NewGenerator().Generate("Patient reports feeling tired for three weeks. She states the headache started since Monday and denies nausea.")
	if note.Subjective == "" {
		t.Fatalf("expected subjective content")
	}
	if note.Objective != "" || note.Assessment != "" || note.Plan != "" {
		t.Fatalf("expected only subjective, got %+v", note)
	}
	v := Validate(note)
	if !v[Subjective] || v[Objective] || v[Assessment] || v[Plan] {
		t.Fatalf("unexpected completeness %v", v)
	}
}

func TestGenerate_EachSentenceAtMostOnce(t *testing.T) {
	in := "Patient complains of cough. Temp 101.2°F and BP 130/85. Impression is likely viral bronchitis. Plan to continue fluids and return if worse. Weather discussed."
	note := NewGenerator().Generate(in)
	all := strings.Join([]string{note.Subjective, note.Objective, note.Assessment, note.Plan}, " ")
	for _, s := range []string{"Patient complains of cough.", "Temp 101.2°F and BP 130/85.", "Impression is likely viral bronchitis.", "Plan to continue fluids and return if worse."} {
		if c := strings.Count(all, s); c != 1 {
			t.Fatalf("sentence %q appears %d times in %+v", s, c, note)
		}
	}
	if strings.Contains(all, "Weather") {
		t.Fatalf("uncategorized sentence should be dropped: %+v", note)
	}
	if note.Assessment != "Impression is likely viral bronchitis." {
		t.Fatalf("unexpected assessment %q", note.Assessment)
	}
}

func TestCategorize_TieBreakOrder(t *testing.T) {
	// one Objective hit and one Assessment hit
	sec, ok := Categorize("Vital signs stable")
	if !ok || sec != Objective {
		t.Fatalf("expected objective on tie, got %q ok=%v", sec, ok)
	}
	// one Subjective hit and one Plan hit
	sec, _ = Categorize("She reports she will continue")
	if sec != Subjective {
		t.Fatalf("expected subjective on tie, got %q", sec)
	}
	if _, ok := Categorize("Nothing to see"); ok {
		t.Fatalf("expected no category")
	}
}

func TestGenerate_Empty(t *testing.T) {
	note := NewGenerator().Generate("   ")
	if note.Status != outcome.StatusEmpty {
		t.Fatalf("expected empty status, got %+v", note)
	}
	v := Validate(note)
	for _, sec := range Sections {
		if v[sec] {
			t.Fatalf("section %s should be incomplete", sec)
		}
	}
}

func TestKeywordSetsDisjoint(t *testing.T) {
	owner := map[string]Section{}
	for sec, words := range sectionKeywords {
		for _, w := range words {
			if prev, ok := owner[w]; ok {
				t.Fatalf("keyword %q in both %s and %s", w, prev, sec)
			}
			owner[w] = sec
		}
	}
}

func TestScore_NestedKeywordsCountOnce(t *testing.T) {
	if got := Score("Chest pain at rest", Subjective); got != 1 {
		t.Fatalf("expected chest pain to score 1, got %d", got)
	}
	if got := Score("Patient reports chest pain", Subjective); got != 2 {
		t.Fatalf("expected patient reports + chest pain to score 2, got %d", got)
	}
	if got := Score("Pain in the knee, chest pain later", Subjective); got != 2 {
		t.Fatalf("separate pain mention should still count, got %d", got)
	}
}

func TestGenerate_PanicBecomesErrorStatus(t *testing.T) {
	saved := sectionMatchers[Plan]
	sectionMatchers[Plan] = append([]*regexp.Regexp{nil}, saved...)
	defer func() { sectionMatchers[Plan] = saved }()

	note := NewGenerator().Generate("Patient reports cough for two days.")
	if note.Status != outcome.StatusError || note.Reason == "" {
		t.Fatalf("expected error status with reason, got %+v", note)
	}
	if note.Subjective != "" || note.Plan != "" {
		t.Fatalf("error result must carry no sections, got %+v", note)
	}
}
