package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jacksmith/lodge/internal/cli"
	"github.com/jacksmith/lodge/internal/model"
	"github.com/jacksmith/lodge/internal/ops"
	"github.com/jacksmith/lodge/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStorage points --dir at a fresh temporary .lodge directory.
func setupTestStorage(t *testing.T) *storage.Storage {
	t.Helper()

	dir := t.TempDir()
	rootDir = dir
	rootLogLevel = ""
	cli.SetColorEnabled(false)
	t.Cleanup(func() { rootDir = "." })

	s, err := storage.Init(dir, storage.DriverYAML)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// setupTestStorageWithData adds customer cam@x.com and facility Harbor Inn
// with capacity 1.
func setupTestStorageWithData(t *testing.T) *storage.Storage {
	t.Helper()
	s := setupTestStorage(t)

	_, err := ops.CreateCustomer(s, model.Customer{Name: "Cam", Email: "cam@x.com", Phone: "0123456789"})
	require.NoError(t, err)
	_, err = ops.CreateFacility(s, model.Facility{Name: "Harbor Inn", Location: "Lisbon", Capacity: 1, ContactEmail: "desk@harbor.pt"})
	require.NoError(t, err)
	return s
}

// captureOutput runs fn with stdout redirected and returns what it printed.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	os.Stdout = old

	return buf.String(), runErr
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	rootDir = dir
	rootLogLevel = ""
	t.Cleanup(func() { rootDir = "." })

	for _, driver := range []string{"yaml", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			rootDir = filepath.Join(dir, driver)
			require.NoError(t, os.MkdirAll(rootDir, 0755))
			initDriver = driver

			output, err := captureOutput(t, func() error { return runInit(nil, nil) })
			require.NoError(t, err)
			assert.Contains(t, output, "Initialized lodge")
			assert.Contains(t, output, "driver: "+driver)
			assert.FileExists(t, filepath.Join(rootDir, ".lodge", "config.yaml"))

			_, err = captureOutput(t, func() error { return runInit(nil, nil) })
			assert.Error(t, err, "second init must fail")
		})
	}
	initDriver = string(storage.DriverYAML)
}

func TestInitInvalidDriver(t *testing.T) {
	rootDir = t.TempDir()
	t.Cleanup(func() {
		rootDir = "."
		initDriver = string(storage.DriverYAML)
	})
	initDriver = "postgres"

	err := runInit(nil, nil)
	var valErr *cli.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "driver", valErr.Field)
	assert.NoDirExists(t, filepath.Join(rootDir, ".lodge"))
}

func TestOpenWithoutInit(t *testing.T) {
	rootDir = t.TempDir()
	t.Cleanup(func() { rootDir = "." })

	err := runFacilityList(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lodge init")
}

func TestInvalidLogLevel(t *testing.T) {
	setupTestStorage(t)
	rootLogLevel = "loud"
	t.Cleanup(func() { rootLogLevel = "" })

	err := runFacilityList(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestFacilityCommands(t *testing.T) {
	s := setupTestStorage(t)
	t.Cleanup(func() { facilityLocation, facilityCapacity, facilityEmail = "", 0, "" })

	facilityLocation, facilityCapacity, facilityEmail = "Lisbon", 3, "desk@harbor.pt"
	output, err := captureOutput(t, func() error { return runFacilityCreate(nil, []string{"Harbor Inn"}) })
	require.NoError(t, err)
	assert.Equal(t, "Created facility Harbor Inn\n", output)

	output, err = captureOutput(t, func() error { return runFacilityCreate(nil, []string{"Harbor Inn"}) })
	require.NoError(t, err)
	assert.Equal(t, "Replaced facility Harbor Inn\n", output)

	output, err = captureOutput(t, func() error { return runFacilityList(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "Harbor Inn")
	assert.Contains(t, output, "Lisbon")

	output, err = captureOutput(t, func() error {
		return runFacilityModify(nil, []string{"Harbor Inn", "cap", "9"})
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated facility Harbor Inn: capacity = 9\n", output)

	f, err := ops.GetFacility(s, "Harbor Inn")
	require.NoError(t, err)
	assert.Equal(t, 9, f.Capacity)

	output, err = captureOutput(t, func() error { return runFacilityDelete(nil, []string{"Harbor Inn"}) })
	require.NoError(t, err)
	assert.Equal(t, "Deleted facility Harbor Inn\n", output)

	output, err = captureOutput(t, func() error { return runFacilityList(nil, nil) })
	require.NoError(t, err)
	assert.Equal(t, "no facilities\n", output)
}

func TestFacilityCreateValidation(t *testing.T) {
	setupTestStorage(t)
	t.Cleanup(func() { facilityLocation, facilityCapacity, facilityEmail = "", 0, "" })

	tests := []struct {
		name     string
		location string
		capacity int
		email    string
		field    string
	}{
		{"missing location", "", 1, "h@x.com", "location"},
		{"negative capacity", "Lisbon", -1, "h@x.com", "capacity"},
		{"bad email", "Lisbon", 1, "not-an-email", "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facilityLocation, facilityCapacity, facilityEmail = tt.location, tt.capacity, tt.email

			err := runFacilityCreate(nil, []string{"Harbor Inn"})
			var valErr *cli.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestFacilityModifyErrors(t *testing.T) {
	setupTestStorageWithData(t)

	err := runFacilityModify(nil, []string{"Harbor Inn", "stars", "5"})
	assert.Error(t, err)

	err = runFacilityModify(nil, []string{"Harbor Inn", "capacity", "-3"})
	assert.EqualError(t, err, "invalid capacity: must not be negative")

	err = runFacilityModify(nil, []string{"Nowhere", "location", "Faro"})
	assert.True(t, ops.IsNotFound(err, ops.EntityFacility))
}

func TestCustomerCommands(t *testing.T) {
	s := setupTestStorage(t)
	t.Cleanup(func() { customerName, customerPhone = "", "" })

	customerName, customerPhone = "Cam", "0123456789"
	output, err := captureOutput(t, func() error { return runCustomerCreate(nil, []string{"cam@x.com"}) })
	require.NoError(t, err)
	assert.Equal(t, "Created customer cam@x.com\n", output)

	output, err = captureOutput(t, func() error {
		return runCustomerModify(nil, []string{"cam@x.com", "ph", "9876543210"})
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated customer cam@x.com: phone = 9876543210\n", output)

	c, err := ops.GetCustomer(s, "cam@x.com")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", c.Phone)

	output, err = captureOutput(t, func() error { return runCustomerList(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "cam@x.com")
	assert.Contains(t, output, "9876543210")

	_, err = captureOutput(t, func() error { return runCustomerDelete(nil, []string{"cam@x.com"}) })
	require.NoError(t, err)

	err = runCustomerDelete(nil, []string{"cam@x.com"})
	assert.True(t, ops.IsNotFound(err, ops.EntityCustomer))
}

func TestCustomerCreateValidation(t *testing.T) {
	setupTestStorage(t)
	t.Cleanup(func() { customerName, customerPhone = "", "" })

	customerName, customerPhone = "Cam", "12345"
	err := runCustomerCreate(nil, []string{"cam@x.com"})
	assert.EqualError(t, err, "invalid phone: must be exactly 10 digits")

	customerPhone = "0123456789"
	err = runCustomerCreate(nil, []string{"cam"})
	assert.EqualError(t, err, "invalid email: must look like name@example.com")

	err = runCustomerModify(nil, []string{"cam@x.com", "phone", "abc"})
	assert.EqualError(t, err, "invalid phone: must be exactly 10 digits")
}

func TestReserveAndCancel(t *testing.T) {
	s := setupTestStorageWithData(t)

	output, err := captureOutput(t, func() error { return runReserve(nil, []string{"cam@x.com", "Harbor Inn"}) })
	require.NoError(t, err)
	assert.Equal(t, "Reserved Harbor Inn for cam@x.com\nHarbor Inn remaining: full\n", output)

	_, err = captureOutput(t, func() error { return runReserve(nil, []string{"cam@x.com", "Harbor Inn"}) })
	var noCap *ops.NoCapacityError
	require.True(t, errors.As(err, &noCap))

	output, err = captureOutput(t, func() error { return runReservations(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "cam@x.com")
	assert.Contains(t, output, "Harbor Inn")

	output, err = captureOutput(t, func() error { return runCancel(nil, []string{"cam@x.com", "Harbor Inn"}) })
	require.NoError(t, err)
	assert.Equal(t, "Cancelled reservation of cam@x.com at Harbor Inn\nHarbor Inn now has 1 available\n", output)

	reservations, err := s.Reservations().LoadAll()
	require.NoError(t, err)
	assert.Empty(t, reservations)

	err = runCancel(nil, []string{"cam@x.com", "Harbor Inn"})
	assert.True(t, ops.IsNotFound(err, ops.EntityReservation))
}

func TestReserveUnknownCustomer(t *testing.T) {
	s := setupTestStorageWithData(t)

	err := runReserve(nil, []string{"ghost@x.com", "Harbor Inn"})
	assert.True(t, ops.IsNotFound(err, ops.EntityCustomer))

	f, err := ops.GetFacility(s, "Harbor Inn")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Capacity)
}

func TestCancelAfterFacilityDeleted(t *testing.T) {
	s := setupTestStorageWithData(t)
	_, err := ops.CreateReservation(s, "cam@x.com", "Harbor Inn")
	require.NoError(t, err)
	require.NoError(t, ops.DeleteFacility(s, "Harbor Inn"))

	output, err := captureOutput(t, func() error { return runCancel(nil, []string{"cam@x.com", "Harbor Inn"}) })
	require.NoError(t, err)
	assert.Contains(t, output, "Harbor Inn no longer exists; no capacity restored")
}

func TestReservationsFilter(t *testing.T) {
	s := setupTestStorage(t)
	require.NoError(t, s.Reservations().Append(model.Reservation{CustomerEmail: "a@x.com", FacilityName: "North"}))
	require.NoError(t, s.Reservations().Append(model.Reservation{CustomerEmail: "b@x.com", FacilityName: "South"}))
	t.Cleanup(func() { reservationsCustomer, reservationsFacility = "", "" })

	reservationsCustomer = "a@x.com"
	output, err := captureOutput(t, func() error { return runReservations(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "North")
	assert.NotContains(t, output, "South")

	reservationsCustomer, reservationsFacility = "", "South"
	output, err = captureOutput(t, func() error { return runReservations(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "b@x.com")
	assert.NotContains(t, output, "a@x.com")

	reservationsFacility = "West"
	output, err = captureOutput(t, func() error { return runReservations(nil, nil) })
	require.NoError(t, err)
	assert.Equal(t, "no reservations\n", output)
}

func TestListCorruptCollectionWarns(t *testing.T) {
	s := setupTestStorage(t)
	require.NoError(t, os.WriteFile(s.Facilities().Location(), []byte("not: [valid"), 0644))

	output, err := captureOutput(t, func() error { return runFacilityList(nil, nil) })
	require.NoError(t, err)
	assert.Equal(t, "no facilities\n", output)
}

func TestCheckCommand(t *testing.T) {
	s := setupTestStorageWithData(t)
	t.Cleanup(func() { checkFix = false })

	output, err := captureOutput(t, func() error { return runCheck(nil, nil) })
	require.NoError(t, err)
	assert.Equal(t, "No problems found.\n", output)

	require.NoError(t, s.Reservations().Append(model.Reservation{CustomerEmail: "ghost@x.com", FacilityName: "Harbor Inn"}))

	output, err = captureOutput(t, func() error { return runCheck(nil, nil) })
	assert.EqualError(t, err, "1 problem(s) found")
	assert.Contains(t, output, "fixable")
	assert.Contains(t, output, "ghost@x.com")

	checkFix = true
	output, err = captureOutput(t, func() error { return runCheck(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "fixed")
	assert.Contains(t, output, "No problems found.")

	reservations, err := s.Reservations().LoadAll()
	require.NoError(t, err)
	assert.Empty(t, reservations)
}

func TestCheckFixRecoversCorruptReservations(t *testing.T) {
	s := setupTestStorageWithData(t)
	t.Cleanup(func() { checkFix = false })
	require.NoError(t, os.WriteFile(s.Reservations().Location(), []byte("\xff\xfe\x00garbage"), 0644))

	err := runReserve(nil, []string{"cam@x.com", "Harbor Inn"})
	require.Error(t, err)
	assert.Contains(t, cli.FormatError(err), "lodge check --fix")

	checkFix = true
	output, err := captureOutput(t, func() error { return runCheck(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "fixed reservations: corrupt_collection")
	assert.Contains(t, output, "No problems found.")

	_, err = captureOutput(t, func() error { return runReserve(nil, []string{"cam@x.com", "Harbor Inn"}) })
	require.NoError(t, err)
}
