package dbx_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ruslano69/sqlgate/pkg/dbx"
)

type user struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Age  int    `db:"age"`
}

func TestGet_TypedMapping(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	seedUsers(t, db)

	u, found, err := dbx.Get[user](ctx, db, dbx.NewCommand(`SELECT id, name, age FROM users WHERE id = 1`))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected a row")
	}
	if u.ID != 1 || u.Name != "alice" || u.Age != 30 {
		t.Errorf("Mapping wrong: %+v", u)
	}
}

func TestGet_EmptyResultIsAbsent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	seedUsers(t, db)

	_, found, err := dbx.Get[user](ctx, db, dbx.NewCommand(`SELECT * FROM users WHERE id = 99`))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Empty result must report absence, not a default object")
	}
}

func TestGet_CaseInsensitiveAndExtraColumns(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	seedUsers(t, db)

	// Колонки в другом регистре + лишняя колонка extra
	u, found, err := dbx.Get[user](ctx, db,
		dbx.NewCommand(`SELECT id AS ID, name AS NAME, 'junk' AS extra FROM users WHERE id = 2`))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected a row")
	}
	if u.ID != 2 || u.Name != "bob" {
		t.Errorf("Case-insensitive mapping wrong: %+v", u)
	}
	// age не выбран - нулевое значение
	if u.Age != 0 {
		t.Errorf("Unselected field must keep default, got %d", u.Age)
	}
}

func TestGet_NullKeepsDefault(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	seedUsers(t, db)

	u, found, err := dbx.Get[user](ctx, db, dbx.NewCommand(`SELECT id, name, age FROM users WHERE id = 3`))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected a row")
	}
	if u.Age != 0 {
		t.Errorf("NULL column must keep field default, got %d", u.Age)
	}
}

func TestSelect_AllRows(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	seedUsers(t, db)

	users, err := dbx.Select[user](ctx, db, dbx.NewCommand(`SELECT id, name, age FROM users ORDER BY id`))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("Expected 3 users, got %d", len(users))
	}
	if users[0].Name != "alice" || users[2].Name != "carol" {
		t.Errorf("Row order wrong: %+v", users)
	}
}

func TestGetFunc_CustomLoaderReplacesMapping(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	seedUsers(t, db)

	// Пользовательский загрузчик получает сырую строку и полностью
	// заменяет маппинг по именам
	name, found, err := dbx.GetFunc(ctx, db,
		dbx.NewCommand(`SELECT id, name, age FROM users WHERE id = 1`),
		func(rows *sql.Rows) (string, error) {
			var id int64
			var name string
			var age any
			if err := rows.Scan(&id, &name, &age); err != nil {
				return "", err
			}
			return name, nil
		})
	if err != nil {
		t.Fatalf("GetFunc failed: %v", err)
	}
	if !found || name != "alice" {
		t.Errorf("Expected alice, got %q (found=%v)", name, found)
	}
}

func TestSelectRecords_NullNormalized(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	seedUsers(t, db)

	recs, err := db.SelectRecords(ctx, dbx.NewCommand(`SELECT id, name, age FROM users ORDER BY id`))
	if err != nil {
		t.Fatalf("SelectRecords failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(recs))
	}

	// Порядок полей = порядок колонок
	if recs[0].At(0).Name != "id" || recs[0].At(1).Name != "name" || recs[0].At(2).Name != "age" {
		t.Errorf("Field order wrong: %+v", recs[0].Fields())
	}

	// NULL нормализуется в отсутствующее значение, не в sentinel
	age, ok := recs[2].Get("age")
	if !ok {
		t.Fatal("Expected age field present")
	}
	if !age.IsNull() || age.Any() != nil {
		t.Errorf("NULL cell must normalize to null value, got %v", age.Any())
	}
}

func TestGetRecord_FirstRowOnly(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	seedUsers(t, db)

	rec, found, err := db.GetRecord(ctx, dbx.NewCommand(`SELECT id, name FROM users ORDER BY id`))
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if !found {
		t.Fatal("Expected a record")
	}
	if v, _ := rec.Get("name"); v.Str() != "alice" {
		t.Errorf("Expected first row, got %q", v.Str())
	}

	// Пустой результат
	_, found, err = db.GetRecord(ctx, dbx.NewCommand(`SELECT id FROM users WHERE id = 99`))
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if found {
		t.Error("Empty result must report absence")
	}
}
