package pagination

import "testing"

func TestNormalize_Defaults(t *testing.T) {
	pg := Normalize("", "", "")

	if pg.Page != 1 {
		t.Errorf("expected page=1, got %d", pg.Page)
	}
	if pg.Limit != DefaultLimit {
		t.Errorf("expected limit=%d, got %d", DefaultLimit, pg.Limit)
	}
	if pg.Offset != 0 {
		t.Errorf("expected offset=0, got %d", pg.Offset)
	}
}

func TestNormalize_LimitClampedToMax(t *testing.T) {
	pg := Normalize("", "200", "")

	if pg.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, pg.Limit)
	}
}

func TestNormalize_LimitBelowMinFallsBackToDefault(t *testing.T) {
	for _, raw := range []string{"0", "-5"} {
		pg := Normalize("", raw, "")
		if pg.Limit != DefaultLimit {
			t.Errorf("limit=%q: expected default %d, got %d", raw, DefaultLimit, pg.Limit)
		}
	}
}

func TestNormalize_NonNumericInputFallsBackToDefaults(t *testing.T) {
	pg := Normalize("abc", "xyz", "nope")

	if pg.Page != 1 {
		t.Errorf("expected page=1, got %d", pg.Page)
	}
	if pg.Limit != DefaultLimit {
		t.Errorf("expected limit=%d, got %d", DefaultLimit, pg.Limit)
	}
}

func TestNormalize_OffsetSnapsToPageBoundary(t *testing.T) {
	// offset=25 with limit=10 lands inside page 3, which starts at offset 20.
	pg := Normalize("", "10", "25")

	if pg.Page != 3 {
		t.Errorf("expected page=3, got %d", pg.Page)
	}
	if pg.Offset != 20 {
		t.Errorf("expected offset snapped to 20, got %d", pg.Offset)
	}
}

func TestNormalize_PageWinsOverOffset(t *testing.T) {
	pg := Normalize("5", "10", "999")

	if pg.Page != 5 {
		t.Errorf("expected page=5, got %d", pg.Page)
	}
	if pg.Offset != 40 {
		t.Errorf("expected offset=40, got %d", pg.Offset)
	}
}

func TestNormalize_NegativePageClampedToOne(t *testing.T) {
	pg := Normalize("-3", "", "")

	if pg.Page != 1 {
		t.Errorf("expected page=1, got %d", pg.Page)
	}
	if pg.Offset != 0 {
		t.Errorf("expected offset=0, got %d", pg.Offset)
	}
}

func TestNormalize_RoundTrip(t *testing.T) {
	// Normalizing an already-normalized window must be a no-op.
	first := Normalize("4", "25", "")
	second := FromValues(first.Page, first.Limit, first.Offset)

	if first != second {
		t.Errorf("normalization not idempotent: %+v != %+v", first, second)
	}
}

func TestMeta_TotalPagesRoundsUp(t *testing.T) {
	pg := Normalize("1", "10", "")
	meta := pg.Meta(25)

	if meta.TotalPages != 3 {
		t.Errorf("expected total_pages=3, got %d", meta.TotalPages)
	}
	if !meta.HasNext {
		t.Error("expected has_next=true on page 1 of 3")
	}
	if meta.HasPrev {
		t.Error("expected has_prev=false on page 1")
	}
}

func TestMeta_LastPage(t *testing.T) {
	pg := Normalize("3", "10", "")
	meta := pg.Meta(25)

	if meta.HasNext {
		t.Error("expected has_next=false on last page")
	}
	if !meta.HasPrev {
		t.Error("expected has_prev=true on page 3")
	}
}

func TestMeta_ZeroTotal(t *testing.T) {
	pg := Normalize("1", "10", "")
	meta := pg.Meta(0)

	if meta.TotalPages != 0 {
		t.Errorf("expected total_pages=0, got %d", meta.TotalPages)
	}
	if meta.HasNext || meta.HasPrev {
		t.Error("expected no next/prev pages for empty result")
	}
}

func TestMeta_NegativeTotalTreatedAsZero(t *testing.T) {
	pg := Normalize("1", "10", "")
	meta := pg.Meta(-7)

	if meta.Total != 0 {
		t.Errorf("expected total=0, got %d", meta.Total)
	}
}
