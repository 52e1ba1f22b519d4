package store

import (
	"errors"
	"testing"
)

func TestTodoCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	user := createTestUser(t, db, "todo@example.com")

	alarm := "07:30"
	todo, err := ts.Create(user.ID, "Water the tulips", "2026-08-28", &alarm, nil)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if todo.Title != "Water the tulips" {
		t.Errorf("title = %q", todo.Title)
	}
	if todo.Date != "2026-08-28" {
		t.Errorf("date = %q", todo.Date)
	}
	if todo.AlarmTime == nil || *todo.AlarmTime != "07:30" {
		t.Errorf("alarm_time = %v, want 07:30", todo.AlarmTime)
	}
	if todo.Completed {
		t.Error("new todo should be incomplete")
	}

	got, err := ts.GetByID(todo.ID)
	if err != nil {
		t.Fatalf("get todo: %v", err)
	}
	if got == nil || got.ID != todo.ID {
		t.Fatalf("got %+v, want todo %d", got, todo.ID)
	}
}

func TestTodoCategories(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	cs := NewCategoryStore(db)
	user := createTestUser(t, db, "todo-cats@example.com")

	work, err := cs.Create(user.ID, "work")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	home, err := cs.Create(user.ID, "home")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	todo, err := ts.Create(user.ID, "File report", "2026-08-28", nil, []int64{work.ID, home.ID})
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if len(todo.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(todo.Categories))
	}

	// nil category ids leaves the links alone; an empty slice clears them
	todo, err = ts.Update(todo.ID, todo.Title, todo.Date, nil, nil)
	if err != nil {
		t.Fatalf("update todo: %v", err)
	}
	if len(todo.Categories) != 2 {
		t.Fatalf("nil ids should keep categories, got %d", len(todo.Categories))
	}

	todo, err = ts.Update(todo.ID, todo.Title, todo.Date, nil, []int64{})
	if err != nil {
		t.Fatalf("update todo: %v", err)
	}
	if len(todo.Categories) != 0 {
		t.Fatalf("empty ids should clear categories, got %d", len(todo.Categories))
	}
}

func TestTodoListByDate(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	user := createTestUser(t, db, "todo-list@example.com")
	other := createTestUser(t, db, "todo-other@example.com")

	for _, title := range []string{"first", "second"} {
		if _, err := ts.Create(user.ID, title, "2026-08-28", nil, nil); err != nil {
			t.Fatalf("create todo: %v", err)
		}
	}
	if _, err := ts.Create(user.ID, "tomorrow", "2026-08-29", nil, nil); err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if _, err := ts.Create(other.ID, "not mine", "2026-08-28", nil, nil); err != nil {
		t.Fatalf("create todo: %v", err)
	}

	todos, err := ts.ListByDate(user.ID, "2026-08-28")
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos for the day, got %d", len(todos))
	}
	if todos[0].Title != "first" || todos[1].Title != "second" {
		t.Errorf("order = %q, %q; want first, second", todos[0].Title, todos[1].Title)
	}
}

func TestTodoCompleteCreditsReward(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	user := createTestUser(t, db, "complete@example.com")

	todo, err := ts.Create(user.ID, "Feed the rabbit", "2026-08-28", nil, nil)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}

	updated, err := ts.Complete(todo.ID, user.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if updated.CarrotBalance != CarrotReward {
		t.Errorf("balance = %d, want %d", updated.CarrotBalance, CarrotReward)
	}

	got, err := ts.GetByID(todo.ID)
	if err != nil {
		t.Fatalf("get todo: %v", err)
	}
	if !got.Completed {
		t.Error("todo should be completed")
	}
}

func TestTodoCompleteAlreadyCompleted(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	ls := NewLedgerStore(db)
	user := createTestUser(t, db, "double@example.com")

	todo, err := ts.Create(user.ID, "task", "2026-08-28", nil, nil)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if _, err := ts.Complete(todo.ID, user.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err = ts.Complete(todo.ID, user.ID)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}

	// Rejected, so no double credit
	balance, err := ls.Balance(user.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != CarrotReward {
		t.Errorf("balance = %d, want %d (credited once)", balance, CarrotReward)
	}
}

func TestTodoUncompleteSymmetry(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	user := createTestUser(t, db, "symmetry@example.com")
	setBalance(t, db, user.ID, 5)

	todo, err := ts.Create(user.ID, "task", "2026-08-28", nil, nil)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}

	after, err := ts.Complete(todo.ID, user.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if after.CarrotBalance != 5+CarrotReward {
		t.Errorf("balance after complete = %d, want %d", after.CarrotBalance, 5+CarrotReward)
	}

	restored, err := ts.Uncomplete(todo.ID, user.ID)
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if restored.CarrotBalance != 5 {
		t.Errorf("balance after uncomplete = %d, want 5", restored.CarrotBalance)
	}

	got, err := ts.GetByID(todo.ID)
	if err != nil {
		t.Fatalf("get todo: %v", err)
	}
	if got.Completed {
		t.Error("todo should be incomplete again")
	}
}

func TestTodoUncompleteNotCompleted(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	user := createTestUser(t, db, "not-done@example.com")

	todo, err := ts.Create(user.ID, "task", "2026-08-28", nil, nil)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}

	_, err = ts.Uncomplete(todo.ID, user.ID)
	if !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}
}

func TestTodoUncompleteClampsAtZero(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	user := createTestUser(t, db, "clamp-todo@example.com")

	todo, err := ts.Create(user.ID, "task", "2026-08-28", nil, nil)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if _, err := ts.Complete(todo.ID, user.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// The reward was spent in the meantime; undoing must not go negative
	setBalance(t, db, user.ID, 0)

	updated, err := ts.Uncomplete(todo.ID, user.ID)
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if updated.CarrotBalance != 0 {
		t.Errorf("balance = %d, want 0 (clamped)", updated.CarrotBalance)
	}
}

func TestTodoCompleteWrongUser(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")

	todo, err := ts.Create(owner.ID, "private task", "2026-08-28", nil, nil)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}

	_, err = ts.Complete(todo.ID, intruder.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTodoCompleteNotFound(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	user := createTestUser(t, db, "missing-todo@example.com")

	_, err := ts.Complete(999, user.ID)
	if !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoDelete(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	user := createTestUser(t, db, "delete-todo@example.com")

	todo, err := ts.Create(user.ID, "task", "2026-08-28", nil, nil)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if err := ts.Delete(todo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := ts.GetByID(todo.ID)
	if err != nil {
		t.Fatalf("get deleted todo: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestTodoCompleteStorageFailureRollsBack(t *testing.T) {
	db := openTestDB(t)
	ts := NewTodoStore(db)
	user := createTestUser(t, db, "todo-txfail@example.com")

	todo, err := ts.Create(user.ID, "Sweep the porch", "2026-08-28", nil, nil)
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}

	// Make the completion write fail mid-transaction
	if _, err := db.Exec(
		`CREATE TRIGGER block_complete BEFORE UPDATE OF completed ON todos
		 BEGIN SELECT RAISE(ABORT, 'storage failure'); END`,
	); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	_, err = ts.Complete(todo.ID, user.ID)
	if !errors.Is(err, ErrTransactionFailed) {
		t.Fatalf("expected ErrTransactionFailed, got %v", err)
	}

	if _, err := db.Exec(`DROP TRIGGER block_complete`); err != nil {
		t.Fatalf("drop trigger: %v", err)
	}

	// Full rollback: todo still open, no reward credited
	got, err := ts.GetByID(todo.ID)
	if err != nil {
		t.Fatalf("get todo: %v", err)
	}
	if got.Completed {
		t.Error("todo marked completed after a failed transaction")
	}
	balance, err := NewLedgerStore(db).Balance(user.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("balance = %d, want 0", balance)
	}
}
