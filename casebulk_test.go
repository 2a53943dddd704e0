package casebulk_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/bawdo/casebulk"

	_ "modernc.org/sqlite"
)

type product struct {
	ID    int64  `db:"id,pk"`
	Name  string `db:"name"`
	Stock int    `db:"stock"`
}

// TestBulkUpdateConvenience writes structs through the root package.
func TestBulkUpdateConvenience(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE "products" ("id" INTEGER PRIMARY KEY, "name" TEXT, "stock" INTEGER)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO "products" VALUES (1, 'a', 0), (2, 'b', 0)`); err != nil {
		t.Fatal(err)
	}

	model, err := casebulk.Register(product{}, casebulk.WithTable("products"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	entities, err := model.Entities([]product{{ID: 1, Name: "apple", Stock: 5}, {ID: 2, Name: "pear", Stock: 7}})
	if err != nil {
		t.Fatalf("Entities failed: %v", err)
	}

	u := casebulk.NewUpdater(model, casebulk.NewSQLiteVisitor(), casebulk.DBTransactor(db))
	if err := u.BulkUpdate(context.Background(), entities, nil, 0); err != nil {
		t.Fatalf("BulkUpdate failed: %v", err)
	}

	var name string
	var stock int
	if err := db.QueryRow(`SELECT "name", "stock" FROM "products" WHERE "id" = 2`).Scan(&name, &stock); err != nil {
		t.Fatal(err)
	}
	if name != "pear" || stock != 7 {
		t.Errorf("expected pear/7, got %s/%d", name, stock)
	}
}

// TestPlanDryRun renders the statements without a database.
func TestPlanDryRun(t *testing.T) {
	model, err := casebulk.Register(product{}, casebulk.WithTable("products"))
	if err != nil {
		t.Fatal(err)
	}
	rows := []casebulk.Entity{
		casebulk.Row{PK: 1, Values: map[string]any{"stock": 3}},
		casebulk.Row{PK: 2, Values: map[string]any{"stock": casebulk.F("stock").Plus(1)}},
	}
	u := casebulk.NewUpdater(model, casebulk.NewSQLiteVisitor(casebulk.WithoutParams()), nil)
	stmts, err := u.Plan(rows, []string{"stock"}, 0)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	expected := `UPDATE "products" SET "stock" = CASE "products"."id" WHEN 1 THEN 3 WHEN 2 THEN "products"."stock" + 1 END WHERE "products"."id" IN (1, 2)`
	if stmts[0].SQL != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, stmts[0].SQL)
	}
}

// TestSearchedCaseAnnotation demonstrates a CASE in a SELECT list.
func TestSearchedCaseAnnotation(t *testing.T) {
	products := casebulk.NewTable("products")
	label, err := casebulk.SearchedCase([]casebulk.When{
		{Cond: casebulk.F("stock").Eq(0), Then: "sold out"},
		{Cond: casebulk.F("stock").Lt(5), Then: "low"},
	}, casebulk.WithDefault("plenty"))
	if err != nil {
		t.Fatalf("SearchedCase failed: %v", err)
	}
	query := casebulk.NewSelect(products).
		Select(casebulk.F("name"), label.As("availability"))

	sql, params, err := query.ToSQL(casebulk.NewMySQLVisitor())
	if err != nil {
		t.Fatalf("ToSQL failed: %v", err)
	}
	expected := "SELECT `products`.`name`, CASE WHEN `products`.`stock` = ? THEN ? WHEN `products`.`stock` < ? THEN ? ELSE ? END AS `availability` FROM `products`"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if len(params) != 5 || params[4] != "plenty" {
		t.Errorf("unexpected params: %v", params)
	}
}
