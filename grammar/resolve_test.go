package grammar

import (
	"errors"
	"testing"
)

func TestModel_ResolveLookup_FollowsChain(t *testing.T) {
	m := New(Options{})
	if err := m.SetCellValue(MustParse("root-B2"), "value"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	if err := m.SetLookup(MustParse("root-B1"), MustParse("root-B2")); err != nil {
		t.Fatalf("SetLookup: %v", err)
	}
	if err := m.SetLookup(MustParse("root-A1"), MustParse("root-B1")); err != nil {
		t.Fatalf("SetLookup: %v", err)
	}

	got, err := m.ResolveLookup(MustParse("root-A1"))
	if err != nil {
		t.Fatalf("ResolveLookup: %v", err)
	}
	if got != "value" {
		t.Fatalf("resolved=%q, want \"value\"", got)
	}
}

func TestModel_ResolveLookup_OnLeafReturnsContent(t *testing.T) {
	m := New(Options{})
	if err := m.SetCellValue(MustParse("root-A1"), "direct"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}

	got, err := m.ResolveLookup(MustParse("root-A1"))
	if err != nil {
		t.Fatalf("ResolveLookup: %v", err)
	}
	if got != "direct" {
		t.Fatalf("resolved=%q, want \"direct\"", got)
	}
}

func TestModel_ResolveLookup_DetectsCycle(t *testing.T) {
	m := New(Options{})
	if err := m.SetLookup(MustParse("root-A1"), MustParse("root-B1")); err != nil {
		t.Fatalf("SetLookup: %v", err)
	}
	if err := m.SetLookup(MustParse("root-B1"), MustParse("root-A1")); err != nil {
		t.Fatalf("SetLookup: %v", err)
	}

	_, err := m.ResolveLookup(MustParse("root-A1"))
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("err=%v, want CycleError", err)
	}
}

func TestModel_SetLookup_RejectsSelfReference(t *testing.T) {
	m := New(Options{})
	err := m.SetLookup(MustParse("root-A1"), MustParse("root-A1"))
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("err=%v, want CycleError", err)
	}
}

func TestModel_ResolveLookup_DanglingTarget(t *testing.T) {
	m := New(Options{})
	if err := m.SetLookup(MustParse("root-A1"), MustParse("root-E9")); err != nil {
		t.Fatalf("SetLookup: %v", err)
	}

	_, err := m.ResolveLookup(MustParse("root-A1"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestModel_Info_ResolvesLookupContent(t *testing.T) {
	m := New(Options{})
	if err := m.SetCellValue(MustParse("root-B2"), "shown"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	if err := m.SetLookup(MustParse("root-A1"), MustParse("root-B2")); err != nil {
		t.Fatalf("SetLookup: %v", err)
	}

	info, err := m.Info(MustParse("root-A1"))
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Kind != KindLookup || info.Content != "shown" {
		t.Fatalf("info=%+v, want lookup showing %q", info, "shown")
	}

	rootInfo, err := m.Info(Root())
	if err != nil {
		t.Fatalf("Info(root): %v", err)
	}
	if rootInfo.Kind != KindGrid || len(rootInfo.Children) != 4 {
		t.Fatalf("root info=%+v, want grid with 4 children", rootInfo)
	}
}
