package orders

import (
	"path/filepath"
	"testing"
	"time"

	"restaurant-api/config"
	"restaurant-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x", Role: role, Active: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedDish(t *testing.T, db *gorm.DB, name string, price int64, chefID uint) models.Dish {
	t.Helper()
	category := models.Category{Name: name + "-category"}
	require.NoError(t, db.Create(&category).Error)
	dish := models.Dish{Name: name, Price: price, ChefID: chefID, CategoryID: category.ID, Active: true}
	require.NoError(t, db.Create(&dish).Error)
	return dish
}

func seedTable(t *testing.T, db *gorm.DB, name string) models.Table {
	t.Helper()
	table := models.Table{Name: name, Capacity: 4, Active: true}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func checkin(value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestCreateComputesTotal(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dishA := seedDish(t, db, "pho", 50000, chef.ID)
	dishB := seedDish(t, db, "banh mi", 30000, chef.ID)

	order, err := Create(db, customer.ID, CreateInput{
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		NumGuests:   2,
		Items: []ItemInput{
			{DishID: dishA.ID, Quantity: 2},
			{DishID: dishB.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, int64(130000), order.TotalAmount)

	var items []models.OrderItem
	db.Where("order_id = ?", order.ID).Find(&items)
	require.Len(t, items, 2)
	// Snapshot fields captured at add time
	assert.Equal(t, int64(50000), items[0].UnitPrice)
	assert.Equal(t, "pho", items[0].DishName)
}

func TestCreatePriceSnapshotImmuneToLaterChanges(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dish := seedDish(t, db, "pho", 50000, chef.ID)

	order, err := Create(db, customer.ID, CreateInput{
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		Items:       []ItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&dish).Update("price", 99000).Error)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&item).Error)
	assert.Equal(t, int64(50000), item.UnitPrice)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, int64(50000), reloaded.TotalAmount)
}

func TestCreateRejectsBadItems(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dish := seedDish(t, db, "pho", 50000, chef.ID)
	inactive := seedDish(t, db, "retired", 10000, chef.ID)
	require.NoError(t, db.Model(&inactive).Update("active", false).Error)

	tests := []struct {
		name    string
		items   []ItemInput
		asCheck func(t *testing.T, err error)
	}{
		{
			name:  "no items",
			items: nil,
			asCheck: func(t *testing.T, err error) {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "items", validationErr.Field)
			},
		},
		{
			name:  "zero quantity",
			items: []ItemInput{{DishID: dish.ID, Quantity: 0}},
			asCheck: func(t *testing.T, err error) {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "quantity", validationErr.Field)
			},
		},
		{
			name:  "missing dish",
			items: []ItemInput{{DishID: 9999, Quantity: 1}},
			asCheck: func(t *testing.T, err error) {
				var notFoundErr *NotFoundError
				require.ErrorAs(t, err, &notFoundErr)
				assert.Equal(t, "dish", notFoundErr.Resource)
			},
		},
		{
			name:  "inactive dish",
			items: []ItemInput{{DishID: inactive.ID, Quantity: 1}},
			asCheck: func(t *testing.T, err error) {
				var notFoundErr *NotFoundError
				require.ErrorAs(t, err, &notFoundErr)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Create(db, customer.ID, CreateInput{
				CheckinTime: checkin("2024-06-01T19:00:00Z"),
				Items:       tc.items,
			})
			require.Error(t, err)
			tc.asCheck(t, err)

			// All-or-nothing: nothing persisted for this user
			var count int64
			db.Model(&models.Order{}).Where("user_id = ?", customer.ID).Count(&count)
			assert.Zero(t, count)
		})
	}
}

func TestCreateRejectsUnknownPaymentMethod(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dish := seedDish(t, db, "pho", 50000, chef.ID)

	_, err := Create(db, customer.ID, CreateInput{
		CheckinTime:   checkin("2024-06-01T19:00:00Z"),
		PaymentMethod: models.PaymentMethod("BITCOIN"),
		Items:         []ItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "payment_method", validationErr.Field)

	var count int64
	db.Model(&models.Order{}).Where("user_id = ?", customer.ID).Count(&count)
	assert.Zero(t, count)

	// Empty and UNKNOWN both stand for "decide at checkout"
	order, err := Create(db, customer.ID, CreateInput{
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		Items:       []ItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentUnknown, order.PaymentMethod)
}

func TestConflictWindow(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dish := seedDish(t, db, "pho", 50000, chef.ID)
	table1 := seedTable(t, db, "T1")
	table2 := seedTable(t, db, "T2")

	_, err := Create(db, customer.ID, CreateInput{
		TableID:     &table1.ID,
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		Items:       []ItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		tableID  uint
		time     string
		conflict bool
	}{
		{"same table 1.5h later", table1.ID, "2024-06-01T20:30:00Z", true},
		{"same table same time", table1.ID, "2024-06-01T19:00:00Z", true},
		{"same table exactly 2h later", table1.ID, "2024-06-01T21:00:00Z", true},
		{"same table exactly 2h earlier", table1.ID, "2024-06-01T17:00:00Z", true},
		{"same table 2h01m later", table1.ID, "2024-06-01T21:01:00Z", false},
		{"same table 2h01m earlier", table1.ID, "2024-06-01T16:59:00Z", false},
		{"other table same time", table2.ID, "2024-06-01T19:00:00Z", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Create(db, customer.ID, CreateInput{
				TableID:     &tc.tableID,
				CheckinTime: checkin(tc.time),
				Items:       []ItemInput{{DishID: dish.ID, Quantity: 1}},
			})
			if tc.conflict {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "table", validationErr.Field)
				assert.Contains(t, validationErr.Message, "T1")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConflictIgnoresResolvedOrders(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dish := seedDish(t, db, "pho", 50000, chef.ID)
	table := seedTable(t, db, "T1")

	existing, err := Create(db, customer.ID, CreateInput{
		TableID:     &table.ID,
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		Items:       []ItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(existing).Update("status", models.StatusCancelled).Error)

	_, err = Create(db, customer.ID, CreateInput{
		TableID:     &table.ID,
		CheckinTime: checkin("2024-06-01T19:30:00Z"),
		Items:       []ItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	assert.NoError(t, err)
}

func TestAppendItemsKeepsExisting(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dishA := seedDish(t, db, "pho", 50000, chef.ID)
	dishB := seedDish(t, db, "banh mi", 30000, chef.ID)

	order, err := Create(db, customer.ID, CreateInput{
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		Items: []ItemInput{
			{DishID: dishA.ID, Quantity: 2},
			{DishID: dishB.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(130000), order.TotalAmount)

	require.NoError(t, AppendItems(db, order, []ItemInput{{DishID: dishA.ID, Quantity: 1}}))

	assert.Equal(t, int64(180000), order.TotalAmount)
	var items []models.OrderItem
	db.Where("order_id = ?", order.ID).Find(&items)
	assert.Len(t, items, 3)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, int64(180000), reloaded.TotalAmount)
}

func TestReplaceItemsRebuildsFromScratch(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dishA := seedDish(t, db, "pho", 50000, chef.ID)
	dishB := seedDish(t, db, "banh mi", 30000, chef.ID)

	order, err := Create(db, customer.ID, CreateInput{
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		Items:       []ItemInput{{DishID: dishA.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, ReplaceItems(db, order, []ItemInput{{DishID: dishB.ID, Quantity: 3}}))

	assert.Equal(t, int64(90000), order.TotalAmount)
	var items []models.OrderItem
	db.Where("order_id = ?", order.ID).Find(&items)
	require.Len(t, items, 1)
	assert.Equal(t, dishB.ID, items[0].DishID)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestMutationsRejectedOnCompletedOrder(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dish := seedDish(t, db, "pho", 50000, chef.ID)

	order, err := Create(db, customer.ID, CreateInput{
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		Items:       []ItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(order).Update("status", models.StatusCompleted).Error)
	order.Status = models.StatusCompleted

	assert.ErrorIs(t, AppendItems(db, order, []ItemInput{{DishID: dish.ID, Quantity: 1}}), ErrCompleted)
	assert.ErrorIs(t, ReplaceItems(db, order, []ItemInput{{DishID: dish.ID, Quantity: 1}}), ErrCompleted)
	guests := 5
	assert.ErrorIs(t, UpdateFields(db, order, FieldPatch{NumGuests: &guests}), ErrCompleted)
}

func TestUpdateFieldsRechecksConflictExcludingSelf(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dish := seedDish(t, db, "pho", 50000, chef.ID)
	table := seedTable(t, db, "T1")

	order, err := Create(db, customer.ID, CreateInput{
		TableID:     &table.ID,
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		Items:       []ItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Nudging our own booking by 30 minutes must not conflict with itself
	moved := checkin("2024-06-01T19:30:00Z")
	require.NoError(t, UpdateFields(db, order, FieldPatch{CheckinTime: &moved}))
	assert.True(t, order.CheckinTime.Equal(moved))

	// A second booking, then moving it onto the first one's slot must fail
	other, err := Create(db, customer.ID, CreateInput{
		TableID:     &table.ID,
		CheckinTime: checkin("2024-06-02T19:00:00Z"),
		Items:       []ItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	clash := checkin("2024-06-01T20:00:00Z")
	err = UpdateFields(db, other, FieldPatch{CheckinTime: &clash})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "table", validationErr.Field)
}

func TestUpdateFieldsValidation(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dish := seedDish(t, db, "pho", 50000, chef.ID)

	order, err := Create(db, customer.ID, CreateInput{
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		Items:       []ItemInput{{DishID: dish.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	zero := 0
	err = UpdateFields(db, order, FieldPatch{NumGuests: &zero})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "num_guests", validationErr.Field)

	bogus := models.PaymentMethod("BITCOIN")
	err = UpdateFields(db, order, FieldPatch{PaymentMethod: &bogus})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "payment_method", validationErr.Field)

	momo := models.PaymentMomo
	guests := 4
	require.NoError(t, UpdateFields(db, order, FieldPatch{PaymentMethod: &momo, NumGuests: &guests}))
	assert.Equal(t, models.PaymentMomo, order.PaymentMethod)
	assert.Equal(t, 4, order.NumGuests)
}

func TestUpdateRollsBackHeaderWhenItemsFail(t *testing.T) {
	db := newTestDB(t)
	chef := seedUser(t, db, "chef", models.RoleChef)
	customer := seedUser(t, db, "customer", models.RoleCustomer)
	dish := seedDish(t, db, "pho", 50000, chef.ID)

	order, err := Create(db, customer.ID, CreateInput{
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		NumGuests:   2,
		Items:       []ItemInput{{DishID: dish.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	guests := 6
	err = Update(db, order, FieldPatch{NumGuests: &guests}, []ItemInput{{DishID: 9999, Quantity: 1}})
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	// Header and items both come back untouched
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, 2, reloaded.NumGuests)
	assert.Equal(t, int64(100000), reloaded.TotalAmount)
	var items []models.OrderItem
	db.Where("order_id = ?", order.ID).Find(&items)
	require.Len(t, items, 1)
	assert.Equal(t, dish.ID, items[0].DishID)

	// And the combined form still applies cleanly when everything is valid
	require.NoError(t, Update(db, &reloaded, FieldPatch{NumGuests: &guests}, []ItemInput{{DishID: dish.ID, Quantity: 3}}))
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, 6, reloaded.NumGuests)
	assert.Equal(t, int64(150000), reloaded.TotalAmount)
}

func TestScopeFor(t *testing.T) {
	db := newTestDB(t)
	chefA := seedUser(t, db, "chefA", models.RoleChef)
	chefB := seedUser(t, db, "chefB", models.RoleChef)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	alice := seedUser(t, db, "alice", models.RoleCustomer)
	bob := seedUser(t, db, "bob", models.RoleCustomer)

	dishA := seedDish(t, db, "pho", 50000, chefA.ID)
	dishB := seedDish(t, db, "banh mi", 30000, chefB.ID)

	aliceOrder, err := Create(db, alice.ID, CreateInput{
		CheckinTime: checkin("2024-06-01T19:00:00Z"),
		Items:       []ItemInput{{DishID: dishA.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	bobOrder, err := Create(db, bob.ID, CreateInput{
		CheckinTime: checkin("2024-06-01T20:00:00Z"),
		Items:       []ItemInput{{DishID: dishB.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	fetch := func(userID uint, role models.UserRole) []uint {
		var list []models.Order
		ScopeFor(db.Model(&models.Order{}), userID, role).Find(&list)
		ids := make([]uint, 0, len(list))
		for _, o := range list {
			ids = append(ids, o.ID)
		}
		return ids
	}

	assert.ElementsMatch(t, []uint{aliceOrder.ID}, fetch(alice.ID, models.RoleCustomer))
	assert.ElementsMatch(t, []uint{bobOrder.ID}, fetch(bob.ID, models.RoleCustomer))
	assert.ElementsMatch(t, []uint{aliceOrder.ID}, fetch(chefA.ID, models.RoleChef))
	assert.ElementsMatch(t, []uint{bobOrder.ID}, fetch(chefB.ID, models.RoleChef))
	assert.ElementsMatch(t, []uint{aliceOrder.ID, bobOrder.ID}, fetch(admin.ID, models.RoleAdmin))
}
