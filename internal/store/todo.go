package store

import (
	"database/sql"
	"fmt"

	"carrotlist/internal/model"
)

// CarrotReward is the fixed number of carrots credited for completing a todo
// and debited again when the completion is undone.
const CarrotReward = 1

type TodoStore struct {
	db *sql.DB
}

func NewTodoStore(db *sql.DB) *TodoStore {
	return &TodoStore{db: db}
}

func scanTodo(scanner interface{ Scan(...any) error }) (*model.Todo, error) {
	var t model.Todo
	var alarm sql.NullString
	var completed int

	err := scanner.Scan(&t.ID, &t.Title, &t.Date, &alarm, &completed, &t.UserID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	if alarm.Valid {
		t.AlarmTime = &alarm.String
	}
	t.Completed = completed != 0
	return &t, nil
}

const todoCols = `id, title, date, alarm_time, completed, user_id, created_at`

func (s *TodoStore) Create(userID int64, title, date string, alarmTime *string, categoryIDs []int64) (*model.Todo, error) {
	var alarm sql.NullString
	if alarmTime != nil {
		alarm = sql.NullString{String: *alarmTime, Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO todos (title, date, alarm_time, user_id) VALUES (?, ?, ?, ?)`,
		title, date, alarm, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := replaceCategories(tx, id, categoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit todo: %w", err)
	}
	return s.GetByID(id)
}

func (s *TodoStore) GetByID(id int64) (*model.Todo, error) {
	row := s.db.QueryRow(`SELECT `+todoCols+` FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	if t.Categories, err = s.categoriesFor(t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// ListByDate returns the user's todos for one day, oldest first.
func (s *TodoStore) ListByDate(userID int64, date string) ([]model.Todo, error) {
	rows, err := s.db.Query(
		`SELECT `+todoCols+` FROM todos WHERE user_id = ? AND date = ? ORDER BY id ASC`,
		userID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range todos {
		if todos[i].Categories, err = s.categoriesFor(todos[i].ID); err != nil {
			return nil, err
		}
	}
	return todos, nil
}

func (s *TodoStore) Update(id int64, title, date string, alarmTime *string, categoryIDs []int64) (*model.Todo, error) {
	var alarm sql.NullString
	if alarmTime != nil {
		alarm = sql.NullString{String: *alarmTime, Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE todos SET title = ?, date = ?, alarm_time = ? WHERE id = ?`,
		title, date, alarm, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}

	if categoryIDs != nil {
		if err := replaceCategories(tx, id, categoryIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit todo update: %w", err)
	}
	return s.GetByID(id)
}

func (s *TodoStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

// Complete marks the todo completed and credits the fixed carrot reward, as
// one transaction. The todo is re-read under the transaction so two racing
// completions resolve to exactly one credit.
func (s *TodoStore) Complete(todoID, userID int64) (*model.User, error) {
	return s.setCompleted(todoID, userID, true)
}

// Uncomplete reverses Complete: marks the todo incomplete and debits the same
// reward, clamped at zero.
func (s *TodoStore) Uncomplete(todoID, userID int64) (*model.User, error) {
	return s.setCompleted(todoID, userID, false)
}

func (s *TodoStore) setCompleted(todoID, userID int64, completed bool) (*model.User, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var ownerID int64
	var current int
	err = tx.QueryRow(`SELECT user_id, completed FROM todos WHERE id = ?`, todoID).Scan(&ownerID, &current)
	if err == sql.ErrNoRows {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	if ownerID != userID {
		return nil, ErrForbidden
	}

	delta := CarrotReward
	flag := 1
	if completed {
		if current != 0 {
			return nil, ErrAlreadyCompleted
		}
	} else {
		if current == 0 {
			return nil, ErrNotCompleted
		}
		delta = -CarrotReward
		flag = 0
	}

	if _, err := tx.Exec(`UPDATE todos SET completed = ? WHERE id = ?`, flag, todoID); err != nil {
		return nil, fmt.Errorf("%w: update todo: %v", ErrTransactionFailed, err)
	}

	if _, err := applyBalanceDelta(tx, userID, delta); err != nil {
		return nil, fmt.Errorf("%w: adjust reward: %v", ErrTransactionFailed, err)
	}

	user, err := scanUser(tx.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, userID))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit completion: %v", ErrTransactionFailed, err)
	}
	return user, nil
}

func (s *TodoStore) categoriesFor(todoID int64) ([]model.Category, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.text, c.user_id
		 FROM categories c
		 JOIN todo_categories tc ON tc.category_id = c.id
		 WHERE tc.todo_id = ?
		 ORDER BY c.id ASC`,
		todoID,
	)
	if err != nil {
		return nil, fmt.Errorf("list todo categories: %w", err)
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Text, &c.UserID); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func replaceCategories(tx *sql.Tx, todoID int64, categoryIDs []int64) error {
	if _, err := tx.Exec(`DELETE FROM todo_categories WHERE todo_id = ?`, todoID); err != nil {
		return fmt.Errorf("clear todo categories: %w", err)
	}
	for _, cid := range categoryIDs {
		if _, err := tx.Exec(
			`INSERT INTO todo_categories (todo_id, category_id) VALUES (?, ?)`,
			todoID, cid,
		); err != nil {
			return fmt.Errorf("link category: %w", err)
		}
	}
	return nil
}
