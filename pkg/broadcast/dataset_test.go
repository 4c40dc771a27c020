package broadcast

import (
	"reflect"
	"testing"
)

func TestNewDatasetFromRecords(t *testing.T) {
	tests := []struct {
		name            string
		records         [][]string
		expectedColumns []string
		expectedRows    []Row
		expectErr       bool
	}{
		{
			name: "Basic table",
			records: [][]string{
				{"name", "email"},
				{"Ann", "ann@x.com"},
				{"Bo", "bo@x.com"},
			},
			expectedColumns: []string{"name", "email"},
			expectedRows: []Row{
				{"name": "Ann", "email": "ann@x.com"},
				{"name": "Bo", "email": "bo@x.com"},
			},
		},
		{
			name:      "Empty records",
			records:   [][]string{},
			expectErr: true,
		},
		{
			name: "Short row padded",
			records: [][]string{
				{"name", "email"},
				{"Ann"},
			},
			expectedColumns: []string{"name", "email"},
			expectedRows: []Row{
				{"name": "Ann", "email": ""},
			},
		},
		{
			name: "Extra values dropped",
			records: [][]string{
				{"name"},
				{"Ann", "extra"},
			},
			expectedColumns: []string{"name"},
			expectedRows: []Row{
				{"name": "Ann"},
			},
		},
		{
			name: "Duplicate headers renamed",
			records: [][]string{
				{"name", "name"},
				{"Ann", "Bo"},
			},
			expectedColumns: []string{"name", "name_2"},
			expectedRows: []Row{
				{"name": "Ann", "name_2": "Bo"},
			},
		},
		{
			name: "Header repeated three times",
			records: [][]string{
				{"name", "name", "name"},
				{"a", "b", "c"},
			},
			expectedColumns: []string{"name", "name_2", "name_3"},
			expectedRows: []Row{
				{"name": "a", "name_2": "b", "name_3": "c"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataset, err := NewDatasetFromRecords(tt.records)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(dataset.Columns, tt.expectedColumns) {
				t.Errorf("expected columns %v, got %v", tt.expectedColumns, dataset.Columns)
			}
			if !reflect.DeepEqual(dataset.Rows, tt.expectedRows) {
				t.Errorf("expected rows %v, got %v", tt.expectedRows, dataset.Rows)
			}
		})
	}
}

func TestRecipientsFirstSeenOrderAndDedup(t *testing.T) {
	dataset := &Dataset{
		Columns: []string{"name", "email"},
		Rows: []Row{
			{"name": "Ann", "email": "a@x.com"},
			{"name": "Bo", "email": "b@x.com"},
			{"name": "Ann again", "email": "a@x.com"},
			{"name": "Nobody", "email": ""},
		},
	}

	recipients := dataset.Recipients("email")
	expected := []string{"a@x.com", "b@x.com"}
	if !reflect.DeepEqual(recipients, expected) {
		t.Errorf("expected %v, got %v", expected, recipients)
	}
}

func TestFirstRowFor(t *testing.T) {
	dataset := &Dataset{
		Columns: []string{"name", "email"},
		Rows: []Row{
			{"name": "Ann", "email": "a@x.com"},
			{"name": "Ann again", "email": "a@x.com"},
		},
	}

	row, found := dataset.FirstRowFor("email", "a@x.com")
	if !found {
		t.Fatal("expected a row")
	}
	if row["name"] != "Ann" {
		t.Errorf("expected first matching row, got %v", row)
	}

	if _, found := dataset.FirstRowFor("email", "nobody@x.com"); found {
		t.Error("expected no row for unknown email")
	}
}

func TestHasColumn(t *testing.T) {
	dataset := &Dataset{Columns: []string{"name", "email"}}
	if !dataset.HasColumn("email") {
		t.Error("expected email column to exist")
	}
	if dataset.HasColumn("Email") {
		t.Error("column match must be case sensitive")
	}
}
