package services

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cardfolio/cardfolio-api/apperror"
	"github.com/cardfolio/cardfolio-api/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.FlashcardSet{}, &models.Card{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	svc := NewUserService(db, NewSetService(db))
	user, err := svc.Register(username, email, "password123")
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestCreateSetStartsEmpty(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice", "alice@example.com")
	sets := NewSetService(db)
	agg := NewAggregationService(db)

	set, err := sets.CreateSet("Spanish 101", "basics", false, user.PublicID)
	if err != nil {
		t.Fatalf("CreateSet failed: %v", err)
	}

	detail, err := agg.GetSet(set.PublicID)
	if err != nil {
		t.Fatalf("GetSet failed: %v", err)
	}
	if detail.CardCount != 0 {
		t.Errorf("expected cardCount 0, got %d", detail.CardCount)
	}
	if len(detail.Cards) != 0 {
		t.Errorf("expected no cards, got %d", len(detail.Cards))
	}

	grouped, err := agg.CountAndGroupCards([]string{set.PublicID})
	if err != nil {
		t.Fatalf("CountAndGroupCards failed: %v", err)
	}
	if len(grouped) != 0 {
		t.Errorf("expected zero-card set to be omitted, got %d entries", len(grouped))
	}
}

func TestCreateSetValidation(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice", "alice@example.com")
	sets := NewSetService(db)

	if _, err := sets.CreateSet("", "desc", false, user.PublicID); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for empty title, got %v", err)
	}
	if _, err := sets.CreateSet("Title", "desc", false, ""); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for missing owner, got %v", err)
	}
	if _, err := sets.CreateSet("Title", "desc", false, "no-such-user"); !apperror.IsNotFound(err) {
		t.Errorf("expected not-found for unknown owner, got %v", err)
	}
}

func TestReplaceSetCards(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice", "alice@example.com")
	sets := NewSetService(db)
	agg := NewAggregationService(db)

	set, err := sets.CreateSet("Spanish", "", false, user.PublicID)
	if err != nil {
		t.Fatalf("CreateSet failed: %v", err)
	}

	first := []CardInput{
		{Term: "Hola", Definition: "Hello"},
		{Term: "Adios", Definition: "Goodbye"},
	}
	if _, err := sets.ReplaceSetCards(set.PublicID, first); err != nil {
		t.Fatalf("ReplaceSetCards failed: %v", err)
	}

	// Full replace: old card identities must not survive
	detailBefore, err := agg.GetSet(set.PublicID)
	if err != nil {
		t.Fatalf("GetSet failed: %v", err)
	}
	oldIDs := map[string]bool{}
	for _, c := range detailBefore.Cards {
		oldIDs[c.ID] = true
	}

	second := []CardInput{
		{Term: "Gato", Definition: "Cat"},
		{Term: "Perro", Definition: "Dog"},
		{Term: "Hola", Definition: "Hello"},
	}
	if _, err := sets.ReplaceSetCards(set.PublicID, second); err != nil {
		t.Fatalf("second ReplaceSetCards failed: %v", err)
	}

	grouped, err := agg.CountAndGroupCards([]string{set.PublicID})
	if err != nil {
		t.Fatalf("CountAndGroupCards failed: %v", err)
	}
	if len(grouped) != 1 {
		t.Fatalf("expected 1 group, got %d", len(grouped))
	}
	if grouped[0].CardCount != len(second) {
		t.Errorf("expected cardCount %d, got %d", len(second), grouped[0].CardCount)
	}

	want := map[string]string{}
	for _, c := range second {
		want[c.Term] = c.Definition
	}
	for _, c := range grouped[0].Cards {
		if def, ok := want[c.Term]; !ok || def != c.Definition {
			t.Errorf("unexpected card %q -> %q after replace", c.Term, c.Definition)
		}
		if oldIDs[c.ID] {
			t.Errorf("card id %s survived a full replace", c.ID)
		}
	}

	if _, err := sets.ReplaceSetCards("no-such-set", first); !apperror.IsNotFound(err) {
		t.Errorf("expected not-found for unknown set, got %v", err)
	}
}

func TestReplaceSetCardsValidation(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice", "alice@example.com")
	sets := NewSetService(db)

	set, _ := sets.CreateSet("Spanish", "", false, user.PublicID)
	bad := []CardInput{{Term: "Hola", Definition: ""}}
	if _, err := sets.ReplaceSetCards(set.PublicID, bad); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for card without definition, got %v", err)
	}
}

func TestAddCardIsNotIdempotent(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice", "alice@example.com")
	sets := NewSetService(db)
	agg := NewAggregationService(db)

	set, _ := sets.CreateSet("Spanish", "", false, user.PublicID)

	in := CardInput{Term: "Hola", Definition: "Hello"}
	c1, err := sets.AddCard(set.PublicID, in)
	if err != nil {
		t.Fatalf("first AddCard failed: %v", err)
	}
	c2, err := sets.AddCard(set.PublicID, in)
	if err != nil {
		t.Fatalf("second AddCard failed: %v", err)
	}
	if c1.PublicID == c2.PublicID {
		t.Errorf("duplicate AddCard produced the same card id %s", c1.PublicID)
	}

	grouped, err := agg.CountAndGroupCards([]string{set.PublicID})
	if err != nil {
		t.Fatalf("CountAndGroupCards failed: %v", err)
	}
	if len(grouped) != 1 || grouped[0].CardCount != 2 {
		t.Errorf("expected two distinct cards after duplicate AddCard")
	}
}

func TestDeleteSetCascades(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice", "alice@example.com")
	sets := NewSetService(db)
	agg := NewAggregationService(db)

	set, _ := sets.CreateSet("Spanish", "", false, user.PublicID)
	if _, err := sets.ReplaceSetCards(set.PublicID, []CardInput{
		{Term: "Hola", Definition: "Hello"},
		{Term: "Adios", Definition: "Goodbye"},
	}); err != nil {
		t.Fatalf("ReplaceSetCards failed: %v", err)
	}

	if err := sets.DeleteSet(set.PublicID); err != nil {
		t.Fatalf("DeleteSet failed: %v", err)
	}

	if _, err := agg.GetSet(set.PublicID); !apperror.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}

	grouped, err := agg.CountAndGroupCards([]string{set.PublicID})
	if err != nil {
		t.Fatalf("CountAndGroupCards failed: %v", err)
	}
	if len(grouped) != 0 {
		t.Errorf("expected no grouped entry for deleted set, got %d", len(grouped))
	}

	var orphans int64
	db.Model(&models.Card{}).Where("set_id = ?", set.ID).Count(&orphans)
	if orphans != 0 {
		t.Errorf("expected no cards left for deleted set, found %d", orphans)
	}

	if err := sets.DeleteSet(set.PublicID); !apperror.IsNotFound(err) {
		t.Errorf("expected not-found deleting twice, got %v", err)
	}
}

func TestDeleteCardsForSet(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice", "alice@example.com")
	sets := NewSetService(db)
	agg := NewAggregationService(db)

	set, _ := sets.CreateSet("Spanish", "", false, user.PublicID)
	sets.ReplaceSetCards(set.PublicID, []CardInput{
		{Term: "Hola", Definition: "Hello"},
		{Term: "Adios", Definition: "Goodbye"},
	})

	count, err := sets.DeleteCardsForSet(set.PublicID)
	if err != nil {
		t.Fatalf("DeleteCardsForSet failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected deletedCount 2, got %d", count)
	}

	detail, err := agg.GetSet(set.PublicID)
	if err != nil {
		t.Fatalf("GetSet failed: %v", err)
	}
	if detail.CardCount != 0 {
		t.Errorf("expected empty set after card delete, got %d cards", detail.CardCount)
	}
}

func TestGetSetReturnsCardsInAuthoredOrder(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice", "alice@example.com")
	sets := NewSetService(db)
	agg := NewAggregationService(db)

	set, _ := sets.CreateSet("Spanish", "", false, user.PublicID)
	terms := []string{"uno", "dos", "tres", "cuatro"}
	inputs := make([]CardInput, 0, len(terms))
	for _, term := range terms {
		inputs = append(inputs, CardInput{Term: term, Definition: term + "!"})
	}
	if _, err := sets.ReplaceSetCards(set.PublicID, inputs); err != nil {
		t.Fatalf("ReplaceSetCards failed: %v", err)
	}

	detail, err := agg.GetSet(set.PublicID)
	if err != nil {
		t.Fatalf("GetSet failed: %v", err)
	}
	for i, c := range detail.Cards {
		if c.Term != terms[i] {
			t.Errorf("card %d: expected %q, got %q", i, terms[i], c.Term)
		}
	}
}

func TestListSetsFilters(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")
	sets := NewSetService(db)
	agg := NewAggregationService(db)

	sets.CreateSet("Alice private", "", false, alice.PublicID)
	sets.CreateSet("Alice public", "", true, alice.PublicID)
	sets.CreateSet("Bob public", "", true, bob.PublicID)

	owned, err := agg.ListSets(SetFilter{OwnerPublicID: alice.PublicID})
	if err != nil {
		t.Fatalf("ListSets by owner failed: %v", err)
	}
	if len(owned) != 2 {
		t.Errorf("expected 2 sets owned by alice, got %d", len(owned))
	}
	for _, v := range owned {
		if v.CreatedBy.Username != "alice" {
			t.Errorf("expected owner alice, got %s", v.CreatedBy.Username)
		}
	}

	isPublic := true
	public, err := agg.ListSets(SetFilter{IsPublic: &isPublic})
	if err != nil {
		t.Fatalf("ListSets public failed: %v", err)
	}
	if len(public) != 2 {
		t.Errorf("expected 2 public sets, got %d", len(public))
	}

	union, err := agg.ListSets(SetFilter{OwnerPublicID: alice.PublicID, IsPublic: &isPublic})
	if err != nil {
		t.Fatalf("ListSets union failed: %v", err)
	}
	if len(union) != 3 {
		t.Errorf("expected public-or-owned union of 3, got %d", len(union))
	}
}
