package calendar

import "testing"

func strptr(s string) *string { return &s }

func TestMergeCarriesFlagsForward(t *testing.T) {
	t.Parallel()
	prior := []Event{{
		ID:           "abc",
		Status:       StatusUpcoming,
		NotifiedWarn: true,
	}}
	fresh := []Event{{
		ID:       "abc",
		Status:   StatusUpcoming,
		Forecast: strptr("0.5%"),
	}}

	merged := Merge(fresh, prior)
	if len(merged) != 1 {
		t.Fatalf("got %d events, want 1", len(merged))
	}
	if !merged[0].NotifiedWarn {
		t.Fatal("notification flag must survive a re-fetch")
	}
	if merged[0].NotifiedRelease {
		t.Fatal("unset flag must stay unset")
	}
	if merged[0].Forecast == nil || *merged[0].Forecast != "0.5%" {
		t.Fatal("merge must keep the freshly fetched values")
	}
}

func TestMergeFlagMonotonicAcrossRuns(t *testing.T) {
	t.Parallel()
	batch := []Event{{ID: "abc", NotifiedWarn: true, NotifiedRelease: true, Status: StatusCompleted}}
	for i := 0; i < 5; i++ {
		fresh := []Event{{ID: "abc", Status: StatusUpcoming, Forecast: strptr("x")}}
		batch = Merge(fresh, batch)
		if !batch[0].NotifiedWarn || !batch[0].NotifiedRelease {
			t.Fatalf("run %d: flags regressed: %+v", i, batch[0])
		}
	}
}

func TestMergeForcesCompletedOnNewActual(t *testing.T) {
	t.Parallel()
	prior := []Event{{ID: "abc", Status: StatusUpcoming}}
	fresh := []Event{{ID: "abc", Status: StatusUpcoming, Actual: strptr("0.4%")}}

	merged := Merge(fresh, prior)
	if merged[0].Status != StatusCompleted {
		t.Fatalf("Status = %s, want completed once actual is present", merged[0].Status)
	}
}

func TestMergeStatusNeverRegresses(t *testing.T) {
	t.Parallel()
	prior := []Event{{ID: "abc", Status: StatusCompleted, Actual: strptr("0.4%")}}
	// Stale re-fetch lost the actual value.
	fresh := []Event{{ID: "abc", Status: StatusUpcoming}}

	merged := Merge(fresh, prior)
	if merged[0].Status != StatusCompleted {
		t.Fatal("completed must never revert to upcoming")
	}
}

func TestMergeDropsScrolledOutAndPassesFreshThrough(t *testing.T) {
	t.Parallel()
	prior := []Event{
		{ID: "stale", NotifiedWarn: true},
		{ID: "kept", NotifiedRelease: true},
	}
	fresh := []Event{
		{ID: "kept"},
		{ID: "new"},
	}

	merged := Merge(fresh, prior)
	if len(merged) != 2 {
		t.Fatalf("got %d events, want exactly the fresh IDs", len(merged))
	}
	byID := map[string]Event{}
	for _, ev := range merged {
		byID[ev.ID] = ev
	}
	if _, ok := byID["stale"]; ok {
		t.Fatal("events outside the fetch window must be dropped")
	}
	if !byID["kept"].NotifiedRelease {
		t.Fatal("kept event lost its flag")
	}
	if byID["new"].NotifiedWarn || byID["new"].NotifiedRelease {
		t.Fatal("fresh event must pass through with default flags")
	}
}

func TestMergeEmptyPrior(t *testing.T) {
	t.Parallel()
	fresh := []Event{{ID: "a"}, {ID: "b"}}
	merged := Merge(fresh, nil)
	if len(merged) != 2 {
		t.Fatalf("got %d events, want 2", len(merged))
	}
}
