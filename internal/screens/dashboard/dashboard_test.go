package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fido/internal/router"
	"github.com/abhisek/fido/internal/store"
	"github.com/abhisek/fido/internal/workitem"
)

func hours(h float64) *float64 { return &h }

func seeded(t *testing.T) *workitem.Service {
	t.Helper()
	svc := workitem.NewService(store.NewMemoryKV())
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i, it := range []workitem.Item{
		{Title: "Login page", Type: workitem.TypeFeature, Status: workitem.StatusCompleted, TimeSpent: hours(6)},
		{Title: "Fix crash", Type: workitem.TypeBug, Status: workitem.StatusPlanned},
	} {
		it.UserID = "lee"
		it.Description = "desc"
		it.Complexity = 2
		it.StartDate = base.Add(time.Duration(i) * time.Hour)
		if _, err := svc.Log(ctx, it); err != nil {
			t.Fatalf("log: %v", err)
		}
	}
	return svc
}

func loaded(t *testing.T, svc *workitem.Service) *DashboardScreen {
	t.Helper()
	s := New(svc, "lee")
	s.Update(s.Init()())
	return s
}

func TestDashboardView(t *testing.T) {
	s := loaded(t, seeded(t))

	if s.dash.TotalItems != 2 || s.dash.CompletedItems != 1 {
		t.Fatalf("dashboard = %+v", s.dash)
	}
	if s.items[0].Title != "Fix crash" {
		t.Errorf("expected newest first, got %q", s.items[0].Title)
	}
	view := s.View(120, 40)
	for _, want := range []string{"2 TOTAL", "1 DONE", "avg 6.0h", "Login page"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAdvanceStatus(t *testing.T) {
	svc := seeded(t)
	s := loaded(t, svc)

	// Selected item is the planned bug.
	_, cmd := s.Update(tea.KeyPressMsg{Code: 's', Text: "s"})
	_, reload := s.Update(cmd())
	s.Update(reload())
	if s.items[0].Status != workitem.StatusInProgress {
		t.Fatalf("status = %s, want in_progress", s.items[0].Status)
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: 's', Text: "s"})
	_, reload = s.Update(cmd())
	s.Update(reload())
	if s.items[0].Status != workitem.StatusCompleted || s.items[0].CompletionDate == nil {
		t.Fatalf("expected completed with a completion date, got %+v", s.items[0])
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: 's', Text: "s"})
	if cmd != nil || s.notice == "" {
		t.Error("completed items should not advance")
	}
}

func TestNewItemPushesForm(t *testing.T) {
	s := loaded(t, seeded(t))
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected form push")
	}
	if _, ok := msg.Screen.(*FormScreen); !ok {
		t.Errorf("pushed %T", msg.Screen)
	}
}

func TestFormSave(t *testing.T) {
	svc := workitem.NewService(store.NewMemoryKV())
	f := NewForm(svc, "lee")
	f.inputs[fieldTitle].Model.SetValue("Write runbook")
	f.inputs[fieldDescription].Model.SetValue("On-call runbook for the API")
	f.inputs[fieldComplexity].Model.SetValue("4")
	f.inputs[fieldHours].Model.SetValue("2.5")
	f.inputs[fieldTechnologies].Model.SetValue("go, sqlite ,")
	f.focus = fieldType
	f.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	f.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	f.Update(tea.KeyPressMsg{Code: tea.KeyRight}) // documentation

	_, cmd := f.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatalf("expected save command, error: %s", f.errMsg)
	}
	_, pop := f.Update(cmd())
	if _, ok := pop().(router.PopScreenMsg); !ok {
		t.Fatal("expected pop after save")
	}

	items, err := svc.List(context.Background(), "lee")
	if err != nil || len(items) != 1 {
		t.Fatalf("items = %v, err = %v", items, err)
	}
	it := items[0]
	if it.Type != workitem.TypeDocumentation || it.Complexity != 4 || *it.TimeSpent != 2.5 {
		t.Errorf("unexpected item %+v", it)
	}
	if len(it.Technologies) != 2 || it.Technologies[1] != "sqlite" {
		t.Errorf("technologies = %v", it.Technologies)
	}
	if it.Status != workitem.StatusPlanned {
		t.Errorf("status = %s, want planned", it.Status)
	}
}

func TestFormValidationError(t *testing.T) {
	f := NewForm(workitem.NewService(store.NewMemoryKV()), "lee")
	f.inputs[fieldHours].Model.SetValue("lots")
	_, cmd := f.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if cmd != nil {
		t.Fatal("expected no save with bad hours")
	}
	if !strings.Contains(f.errMsg, "number") {
		t.Errorf("errMsg = %q", f.errMsg)
	}

	f.inputs[fieldHours].Model.SetValue("")
	_, cmd = f.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	f.Update(cmd())
	if !strings.Contains(f.errMsg, "title is required") {
		t.Errorf("errMsg = %q", f.errMsg)
	}
}
