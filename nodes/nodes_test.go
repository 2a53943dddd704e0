package nodes

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func usersScope() *Scope {
	return NewTable("users").Scope(
		WithPrimaryKey("id"),
		WithColumn("id", "id", TypeInteger),
		WithColumn("age", "age", TypeInteger),
		WithColumn("name", "full_name", TypeText),
	)
}

// --- Table / Attribute creation ---

func TestTableCreatesAttributes(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	col := users.Col("id")

	if col.Name != "id" {
		t.Errorf("expected col name %q, got %q", "id", col.Name)
	}
	if col.Relation != users {
		t.Error("expected attribute relation to be the users table")
	}
}

func TestTableAliasCreatesAttributes(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	u := users.Alias("u")
	col := u.Col("name")

	if col.Relation != u {
		t.Error("expected attribute relation to be the table alias")
	}
	if RelationName(u) != "u" || TableSourceName(u) != "users" {
		t.Errorf("unexpected names %q / %q", RelationName(u), TableSourceName(u))
	}
}

func TestAttributeTypedCopies(t *testing.T) {
	t.Parallel()
	a := NewTable("users").Col("age")
	typed := a.Typed(TypeInteger)
	if a.Type != TypeUnknown {
		t.Error("Typed must not modify the receiver")
	}
	if typed.Type != TypeInteger {
		t.Errorf("expected integer, got %q", typed.Type)
	}
	lit, ok := typed.Coerce(3).(*LiteralNode)
	if !ok || lit.Type != TypeInteger {
		t.Errorf("expected integer literal, got %#v", typed.Coerce(3))
	}
}

// --- Literals ---

func TestLiteralPassesNodesThrough(t *testing.T) {
	t.Parallel()
	attr := NewTable("users").Col("id")
	if Literal(attr) != Node(attr) {
		t.Error("expected Literal to return an existing Node unchanged")
	}
}

func TestIsLiteral(t *testing.T) {
	t.Parallel()
	ok := []any{nil, true, "x", []byte("x"), 1, int64(1), uint8(1), 1.5, time.Now(), uuid.New()}
	for _, v := range ok {
		if !IsLiteral(v) {
			t.Errorf("expected %T to be a literal", v)
		}
	}
	bad := []any{struct{}{}, []int{1}, map[string]int{}}
	for _, v := range bad {
		if IsLiteral(v) {
			t.Errorf("expected %T not to be a literal", v)
		}
	}
}

type status string

type priority int16

func TestValueConvertsNamedScalarTypes(t *testing.T) {
	t.Parallel()
	n, err := TypedValue(status("open"), TypeText)
	if err != nil {
		t.Fatal(err)
	}
	lit := n.(*LiteralNode)
	if s, ok := lit.Value.(string); !ok || s != "open" {
		t.Errorf("expected string open, got %#v", lit.Value)
	}
	if lit.Type != TypeText {
		t.Errorf("expected text, got %s", lit.Type)
	}
	if v := Literal(priority(3)).(*LiteralNode).Value; v != any(int64(3)) {
		t.Errorf("expected int64 3, got %#v", v)
	}
	if !IsLiteral(status("x")) {
		t.Error("expected a named string type to be a literal")
	}
}

func TestValueRejectsUnsupportedTypes(t *testing.T) {
	t.Parallel()
	_, err := Value(struct{}{})
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
}

// --- Scope ---

func TestScopeResolvesDeclaredColumns(t *testing.T) {
	t.Parallel()
	s := usersScope()
	attr, err := s.Column("name")
	if err != nil {
		t.Fatal(err)
	}
	if attr.Name != "full_name" || attr.Type != TypeText {
		t.Errorf("unexpected attribute %q (%q)", attr.Name, attr.Type)
	}
}

func TestScopeResolvesPK(t *testing.T) {
	t.Parallel()
	attr, err := usersScope().Column("pk")
	if err != nil {
		t.Fatal(err)
	}
	if attr.Name != "id" {
		t.Errorf("expected pk to resolve to id, got %q", attr.Name)
	}
}

func TestScopeWithoutPKRejectsPK(t *testing.T) {
	t.Parallel()
	if _, err := NewTable("t").Scope().Column("pk"); err == nil {
		t.Fatal("expected error resolving pk without a primary key")
	}
}

func TestScopeRejectsUnknownField(t *testing.T) {
	t.Parallel()
	if _, err := usersScope().Column("missing"); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestScopeWithoutColumnsAcceptsAnyName(t *testing.T) {
	t.Parallel()
	attr, err := NewTable("t").Scope().Column("anything")
	if err != nil {
		t.Fatal(err)
	}
	if attr.Name != "anything" {
		t.Errorf("got %q", attr.Name)
	}
}

func TestNilScopeIsStateError(t *testing.T) {
	t.Parallel()
	_, err := Resolve(F("age"), nil)
	var se *StateError
	if !errors.As(err, &se) {
		t.Fatalf("expected StateError, got %v", err)
	}
}

func TestScopeAliasBindsToAlias(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	u := users.Alias("u")
	s := users.Scope(WithPrimaryKey("id")).Alias(u)
	attr, err := s.Column("pk")
	if err != nil {
		t.Fatal(err)
	}
	if attr.Relation != u {
		t.Error("expected attribute bound to the alias")
	}
}

// --- Resolution of expressions ---

func TestResolveRebuildsComparisons(t *testing.T) {
	t.Parallel()
	tmpl := F("age").Gt(F("id"))
	got, err := Resolve(tmpl, usersScope())
	if err != nil {
		t.Fatal(err)
	}
	cmp, ok := got.(*ComparisonNode)
	if !ok {
		t.Fatalf("expected *ComparisonNode, got %T", got)
	}
	if cmp == tmpl {
		t.Error("expected a new node")
	}
	if _, ok := cmp.Left.(*Attribute); !ok {
		t.Errorf("expected left Attribute, got %T", cmp.Left)
	}
	if _, ok := tmpl.Left.(*FieldRef); !ok {
		t.Error("template must keep its FieldRef")
	}
}

func TestAllJoinsWithAnd(t *testing.T) {
	t.Parallel()
	if All() != nil {
		t.Error("expected nil for no predicates")
	}
	a := F("age").Gt(1)
	if All(a) != Node(a) {
		t.Error("expected single predicate unchanged")
	}
	and, ok := All(a, F("age").Lt(9), F("id").Eq(1)).(*AndNode)
	if !ok {
		t.Fatal("expected *AndNode")
	}
	if _, ok := and.Left.(*AndNode); !ok {
		t.Error("expected left-nested AND chain")
	}
}

// --- CASE templates ---

func TestSearchedCaseRequiresPredicates(t *testing.T) {
	t.Parallel()
	_, err := SearchedCase([]When{{Cond: true, Then: 1}})
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	if tm.Context != "searched case condition" {
		t.Errorf("unexpected context %q", tm.Context)
	}
}

func TestSimpleCaseRejectsUnsupportedResult(t *testing.T) {
	t.Parallel()
	_, err := SimpleCase("age", []When{{Cond: 1, Then: struct{}{}}})
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
}

func TestSimpleCaseRejectsBadSubject(t *testing.T) {
	t.Parallel()
	if _, err := SimpleCase(42, nil); err == nil {
		t.Fatal("expected error for integer subject")
	}
}

func TestCaseDefaultNilDiffersFromNoDefault(t *testing.T) {
	t.Parallel()
	without, err := SearchedCase([]When{{Cond: F("age").Gt(1), Then: "x"}})
	if err != nil {
		t.Fatal(err)
	}
	if without.Default != nil {
		t.Error("expected no default")
	}
	with, err := SearchedCase([]When{{Cond: F("age").Gt(1), Then: "x"}}, WithDefault(nil))
	if err != nil {
		t.Fatal(err)
	}
	lit, ok := with.Default.(*LiteralNode)
	if !ok || lit.Value != nil {
		t.Errorf("expected NULL literal default, got %#v", with.Default)
	}
}

func TestFluentCaseRecordsFirstError(t *testing.T) {
	t.Parallel()
	c := NewCase().When("not a predicate", 1).When(F("age").Gt(1), 2)
	if c.Err() == nil {
		t.Fatal("expected recorded error")
	}
	if len(c.Branches) != 0 {
		t.Errorf("expected no branches after error, got %d", len(c.Branches))
	}
	if _, err := c.Resolve(usersScope()); err == nil {
		t.Error("expected Resolve to return the recorded error")
	}
}

func TestCaseResolveLeavesTemplateUntouched(t *testing.T) {
	t.Parallel()
	tmpl := NewCase().
		When(F("age").Lt(2), "less").
		When(F("age").Eq(2), "equal").
		Else("greater").
		Output(TypeText)
	users := NewTable("users")
	posts := NewTable("posts")

	a, err := tmpl.Resolve(users.Scope())
	if err != nil {
		t.Fatal(err)
	}
	b, err := tmpl.Resolve(posts.Scope())
	if err != nil {
		t.Fatal(err)
	}
	ra, rb := a.(*ResolvedCase), b.(*ResolvedCase)
	if ra == rb {
		t.Fatal("expected independent resolved trees")
	}
	la := ra.Whens[0].Condition.(*ComparisonNode).Left.(*Attribute)
	lb := rb.Whens[0].Condition.(*ComparisonNode).Left.(*Attribute)
	if la.Relation != users || lb.Relation != posts {
		t.Error("expected each tree bound to its own scope")
	}
	if _, ok := tmpl.Branches[0].Condition.Node().(*ComparisonNode).Left.(*FieldRef); !ok {
		t.Error("template condition must remain unresolved")
	}
	if ra.OutputType != TypeText || ra.Default == nil {
		t.Error("expected output type and default carried over")
	}
}

func TestResolvedCaseCannotBeResolvedAgain(t *testing.T) {
	t.Parallel()
	c, err := SimpleCase("age", []When{{Cond: 1, Then: "one"}})
	if err != nil {
		t.Fatal(err)
	}
	r, err := c.Resolve(usersScope())
	if err != nil {
		t.Fatal(err)
	}
	_, err = Resolve(r, usersScope())
	var se *StateError
	if !errors.As(err, &se) {
		t.Fatalf("expected StateError, got %v", err)
	}
}

func TestNestedCaseResolves(t *testing.T) {
	t.Parallel()
	inner := NewCase("age").When(1, "one").Else("many")
	outer := NewCase().When(F("id").Gt(0), inner)
	r, err := outer.Resolve(usersScope())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.(*ResolvedCase).Whens[0].Result.(*ResolvedCase); !ok {
		t.Error("expected nested CASE to be resolved")
	}
}

func TestCaseResolveReportsUnknownField(t *testing.T) {
	t.Parallel()
	c := NewCase().When(F("missing").Eq(1), 1)
	if _, err := c.Resolve(usersScope()); err == nil {
		t.Fatal("expected unknown field error")
	}
}

// --- Update lists ---

func TestUpdateListResolvesToSimpleCase(t *testing.T) {
	t.Parallel()
	ul := NewUpdateList(F("pk"), []UpdateRow{{Key: 1, Value: 10}, {Key: 2, Value: 20}}, TypeInteger)
	r, err := ul.Resolve(usersScope())
	if err != nil {
		t.Fatal(err)
	}
	rc := r.(*ResolvedCase)
	if subj, ok := rc.Subject.(*Attribute); !ok || subj.Name != "id" {
		t.Fatalf("expected subject id attribute, got %#v", rc.Subject)
	}
	if len(rc.Whens) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(rc.Whens))
	}
	key := rc.Whens[1].Condition.(*LiteralNode)
	val := rc.Whens[1].Result.(*LiteralNode)
	if key.Value != 2 || key.Type != TypeUnknown {
		t.Errorf("unexpected key %#v", key)
	}
	if val.Value != 20 || val.Type != TypeInteger {
		t.Errorf("unexpected value %#v", val)
	}
	if rc.Default != nil {
		t.Error("update list must have no default")
	}
}

func TestUpdateListResolvesExpressionValues(t *testing.T) {
	t.Parallel()
	ul := NewUpdateList(F("pk"), []UpdateRow{{Key: 1, Value: F("age").Plus(1)}}, TypeInteger)
	r, err := ul.Resolve(usersScope())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.(*ResolvedCase).Whens[0].Result.(*InfixNode); !ok {
		t.Error("expected resolved infix result")
	}
}

func TestUpdateListRejectsNonLiteralKey(t *testing.T) {
	t.Parallel()
	ul := NewUpdateList(F("pk"), []UpdateRow{{Key: []int{1}, Value: 1}}, TypeInteger)
	_, err := ul.Resolve(usersScope())
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
}

func TestEmptyUpdateListHasNoBranches(t *testing.T) {
	t.Parallel()
	r, err := NewUpdateList(F("pk"), nil, TypeInteger).Resolve(usersScope())
	if err != nil {
		t.Fatal(err)
	}
	if len(r.(*ResolvedCase).Whens) != 0 {
		t.Error("expected no branches")
	}
}

// --- Update statements ---

func TestUpdateStatementResolveCopies(t *testing.T) {
	t.Parallel()
	stmt := &UpdateStatement{
		Table:       NewTable("users"),
		Assignments: []*AssignmentNode{{Left: F("age"), Right: F("age").Plus(1)}},
		Wheres:      []Node{F("pk").In(1, 2)},
	}
	r, err := stmt.Resolve(usersScope())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Assignments[0].Left.(*Attribute); !ok {
		t.Errorf("expected resolved target, got %T", r.Assignments[0].Left)
	}
	if _, ok := stmt.Assignments[0].Left.(*FieldRef); !ok {
		t.Error("original statement must be unchanged")
	}
}
