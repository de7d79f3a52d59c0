package handlers

import (
	"context"
	"testing"

	"github.com/gdg-garage/trip-planner-api/internal/models"
)

func TestActivityLifecycle(t *testing.T) {
	env := newTestEnv(t)
	trips := NewTripHandler(env.db, nil, env.auth)
	h := NewActivityHandler(env.db, env.auth)
	ctx := context.Background()

	trip := env.createTrip(t, trips, env.alice, tripFields("Tokyo", "Japan", "2026-04-01", "2026-04-08"))

	create := func(name, date, at string) ActivityOut {
		t.Helper()
		req := &CreateActivityRequest{AuthInput: env.as(t, env.alice)}
		req.Body.Trip = &trip.ID
		req.Body.Name = &name
		req.Body.Date = &date
		if at != "" {
			req.Body.Time = sent(at)
		}
		resp, err := h.HandleCreate(ctx, req)
		if err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		return resp.Body
	}

	sushi := create("Sushi", "2026-04-02", "19:00")
	market := create("Fish market", "2026-04-02", "06:30")
	create("Temple", "2026-04-01", "")

	if sushi.Category != models.ActivityOther || sushi.Completed {
		t.Errorf("unexpected defaults %+v", sushi)
	}

	t.Run("ToggleTwice", func(t *testing.T) {
		in := &GetActivityRequest{AuthInput: env.as(t, env.alice), IDPath: IDPath{ID: sushi.ID}}
		first, err := h.HandleToggleComplete(ctx, in)
		if err != nil {
			t.Fatalf("toggle returned error: %v", err)
		}
		if !first.Body.Completed {
			t.Fatal("first toggle should report the new value true")
		}
		second, err := h.HandleToggleComplete(ctx, in)
		if err != nil {
			t.Fatalf("toggle returned error: %v", err)
		}
		if second.Body.Completed {
			t.Fatal("second toggle should report false")
		}

		var stored models.Activity
		env.db.First(&stored, sushi.ID)
		if stored.Completed {
			t.Error("expected the stored flag to be back to false")
		}
	})

	t.Run("DefaultOrderIsDateThenTime", func(t *testing.T) {
		resp, err := h.HandleList(ctx, &ListActivitiesRequest{AuthInput: env.as(t, env.alice)})
		if err != nil {
			t.Fatalf("HandleList returned error: %v", err)
		}
		want := []string{"Temple", "Fish market", "Sushi"}
		for i, a := range resp.Body {
			if a.Name != want[i] {
				t.Fatalf("expected %v, got %+v", want, resp.Body)
			}
		}
	})

	t.Run("CompletedFilter", func(t *testing.T) {
		h.HandleToggleComplete(ctx, &GetActivityRequest{AuthInput: env.as(t, env.alice), IDPath: IDPath{ID: market.ID}})

		resp, err := h.HandleList(ctx, &ListActivitiesRequest{AuthInput: env.as(t, env.alice), Completed: "true"})
		if err != nil {
			t.Fatalf("HandleList returned error: %v", err)
		}
		if len(resp.Body) != 1 || resp.Body[0].ID != market.ID {
			t.Errorf("expected only the fish market, got %+v", resp.Body)
		}

		_, err = h.HandleList(ctx, &ListActivitiesRequest{AuthInput: env.as(t, env.alice), Completed: "maybe"})
		if statusOf(err) != 422 {
			t.Errorf("expected 422 for a bad boolean, got %v", err)
		}
	})

	t.Run("BadTime", func(t *testing.T) {
		req := &UpdateActivityRequest{AuthInput: env.as(t, env.alice), IDPath: IDPath{ID: sushi.ID}}
		req.Body.Time = sent("25:99")
		if _, err := h.HandleUpdate(ctx, req); !detailAt(err, "body.time") {
			t.Fatalf("expected error on body.time, got %v", err)
		}
	})

	t.Run("ForeignTrip", func(t *testing.T) {
		req := &CreateActivityRequest{AuthInput: env.as(t, env.bob)}
		req.Body.Trip = &trip.ID
		req.Body.Name = ptr("Intruder")
		req.Body.Date = ptr("2026-04-03")
		if _, err := h.HandleCreate(ctx, req); !detailAt(err, "body.trip") {
			t.Fatalf("expected error on body.trip, got %v", err)
		}

		in := &GetActivityRequest{AuthInput: env.as(t, env.bob), IDPath: IDPath{ID: sushi.ID}}
		if _, err := h.HandleToggleComplete(ctx, in); statusOf(err) != 404 {
			t.Fatalf("expected 404, got %v", err)
		}
	})

	t.Run("DeleteUnlinksExpenses", func(t *testing.T) {
		expense := models.Expense{TripID: trip.ID, ActivityID: &sushi.ID, Description: "Omakase", Amount: 90, Category: models.ExpenseFood, Date: models.DateOf(trip.CreatedAt), Currency: "JPY"}
		env.db.Create(&expense)

		if _, err := h.HandleDelete(ctx, &DeleteRequest{AuthInput: env.as(t, env.alice), IDPath: IDPath{ID: sushi.ID}}); err != nil {
			t.Fatalf("HandleDelete returned error: %v", err)
		}

		var stored models.Expense
		if err := env.db.First(&stored, expense.ID).Error; err != nil {
			t.Fatalf("expense should survive: %v", err)
		}
		if stored.ActivityID != nil {
			t.Error("expected the activity link to be cleared")
		}
	})
}

func TestExpenses(t *testing.T) {
	env := newTestEnv(t)
	trips := NewTripHandler(env.db, nil, env.auth)
	h := NewExpenseHandler(env.db, env.auth)
	ctx := context.Background()

	trip := env.createTrip(t, trips, env.alice, tripFields("Seoul", "Korea", "2026-05-01", "2026-05-05"))
	other := env.createTrip(t, trips, env.alice, tripFields("Busan", "Korea", "2026-05-06", "2026-05-08"))
	elsewhere := models.Activity{TripID: other.ID, Name: "Beach", Category: models.ActivityRelaxation, Date: models.DateOf(other.CreatedAt)}
	env.db.Create(&elsewhere)

	newExpense := func(description string, amount float64, date string) *CreateExpenseRequest {
		req := &CreateExpenseRequest{AuthInput: env.as(t, env.alice)}
		category := models.ExpenseFood
		req.Body.Trip = &trip.ID
		req.Body.Description = &description
		req.Body.Amount = &amount
		req.Body.Category = &category
		req.Body.Date = &date
		return req
	}

	t.Run("DefaultsToUSD", func(t *testing.T) {
		resp, err := h.HandleCreate(ctx, newExpense("Bibimbap", 12, "2026-05-01"))
		if err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		if resp.Body.Currency != "USD" || resp.Body.Activity != nil {
			t.Errorf("unexpected expense %+v", resp.Body)
		}
	})

	t.Run("ActivityFromAnotherTrip", func(t *testing.T) {
		req := newExpense("Sunscreen", 8, "2026-05-02")
		req.Body.Activity = sent(elsewhere.ID)
		if _, err := h.HandleCreate(ctx, req); !detailAt(err, "body.activity") {
			t.Fatalf("expected error on body.activity, got %v", err)
		}
	})

	t.Run("MissingFields", func(t *testing.T) {
		req := &CreateExpenseRequest{AuthInput: env.as(t, env.alice)}
		_, err := h.HandleCreate(ctx, req)
		if statusOf(err) != 422 || !detailAt(err, "body.amount") || !detailAt(err, "body.category") {
			t.Fatalf("expected required field errors, got %v", err)
		}
	})

	t.Run("OrderByAmount", func(t *testing.T) {
		h.HandleCreate(ctx, newExpense("Palace tour", 30, "2026-05-03"))
		resp, err := h.HandleList(ctx, &ListExpensesRequest{AuthInput: env.as(t, env.alice), Trip: trip.ID, Ordering: "-amount"})
		if err != nil {
			t.Fatalf("HandleList returned error: %v", err)
		}
		if len(resp.Body) != 2 || resp.Body[0].Amount != 30 {
			t.Errorf("expected the tour first, got %+v", resp.Body)
		}
	})

	t.Run("HiddenFromOthers", func(t *testing.T) {
		resp, err := h.HandleList(ctx, &ListExpensesRequest{AuthInput: env.as(t, env.bob)})
		if err != nil {
			t.Fatalf("HandleList returned error: %v", err)
		}
		if len(resp.Body) != 0 {
			t.Errorf("expected no expenses for bob, got %d", len(resp.Body))
		}
	})
}

func TestChecklist(t *testing.T) {
	env := newTestEnv(t)
	trips := NewTripHandler(env.db, nil, env.auth)
	h := NewChecklistHandler(env.db, env.auth)
	ctx := context.Background()

	trip := env.createTrip(t, trips, env.alice, tripFields("Reykjavik", "Iceland", "2026-02-01", "2026-02-04"))

	add := func(item string, priority int) ChecklistOut {
		t.Helper()
		req := &CreateChecklistRequest{AuthInput: env.as(t, env.alice)}
		req.Body.Trip = &trip.ID
		req.Body.Item = &item
		req.Body.Priority = &priority
		resp, err := h.HandleCreate(ctx, req)
		if err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		return resp.Body
	}

	socks := add("Wool socks", 1)
	passport := add("Passport", 10)

	if socks.Category != "general" {
		t.Errorf("expected default category, got %q", socks.Category)
	}

	in := &GetChecklistRequest{AuthInput: env.as(t, env.alice), IDPath: IDPath{ID: socks.ID}}
	first, err := h.HandleToggle(ctx, in)
	if err != nil || !first.Body.Completed {
		t.Fatalf("expected first toggle to complete, got %v, %v", first, err)
	}

	resp, err := h.HandleList(ctx, &ListChecklistRequest{AuthInput: env.as(t, env.alice), Trip: trip.ID})
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}
	if len(resp.Body) != 2 || resp.Body[0].ID != passport.ID {
		t.Errorf("expected highest priority first, got %+v", resp.Body)
	}

	resp, err = h.HandleList(ctx, &ListChecklistRequest{AuthInput: env.as(t, env.alice), Completed: "false"})
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}
	if len(resp.Body) != 1 || resp.Body[0].Item != "Passport" {
		t.Errorf("expected only the open item, got %+v", resp.Body)
	}

	second, err := h.HandleToggle(ctx, in)
	if err != nil || second.Body.Completed {
		t.Fatalf("expected second toggle to reopen, got %v, %v", second, err)
	}
}
