package worklist

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/labcore/lims/internal/domain/catalog"
	"github.com/labcore/lims/internal/domain/pricing"
	"github.com/labcore/lims/internal/domain/sales"
)

// Entry is one sale test flattened with the client it belongs to. The bench
// works from entries, not from whole sales.
type Entry struct {
	SaleID        uuid.UUID      `json:"saleId"`
	SaleCreatedAt time.Time      `json:"saleCreatedAt"`
	ClientID      uuid.UUID      `json:"clientId"`
	ClientName    string         `json:"clientName"`
	ClientCode    string         `json:"clientCode"`
	Test          sales.SaleTest `json:"test"`
}

// Flatten turns sales into one entry per sale test.
func Flatten(saleList []*sales.Sale) []Entry {
	var entries []Entry
	for _, s := range saleList {
		for _, st := range s.Tests {
			entries = append(entries, Entry{
				SaleID:        s.ID,
				SaleCreatedAt: s.CreatedAt,
				ClientID:      s.ClientID,
				ClientName:    s.ClientName,
				ClientCode:    s.ClientCode,
				Test:          st,
			})
		}
	}
	return entries
}

// Pending filters out completed tests.
func Pending(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Test.Status != sales.StatusCompleted {
			out = append(out, e)
		}
	}
	return out
}

// Column is one test column of the worksheet matrix.
type Column struct {
	TestName string `json:"testName"`
	Category string `json:"category"`
}

// Row is one client row: cells keyed by test name, holding the latest entry
// for that client and test.
type Row struct {
	ClientID   uuid.UUID         `json:"clientId"`
	ClientName string            `json:"clientName"`
	ClientCode string            `json:"clientCode"`
	Cells      map[string]*Entry `json:"cells"`
}

// Matrix is the bench worksheet: distinct clients against distinct test
// names, columns grouped in catalog category order.
type Matrix struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

var categoryOrder = func() map[string]int {
	m := make(map[string]int, len(catalog.Categories))
	for i, c := range catalog.Categories {
		m[c] = i
	}
	return m
}()

// BuildMatrix lays out entries as a worksheet. When a client has the same
// test on several sales, the cell shows the entry from the newest sale.
// A non-empty category restricts the columns to that category.
func BuildMatrix(entries []Entry, category string) Matrix {
	if category != "" {
		var filtered []Entry
		for _, e := range entries {
			if e.Test.Category == category {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	seenCol := make(map[string]bool)
	var columns []Column
	rowIdx := make(map[uuid.UUID]int)
	var rows []Row

	for i := range entries {
		e := entries[i]
		if !seenCol[e.Test.TestName] {
			seenCol[e.Test.TestName] = true
			columns = append(columns, Column{TestName: e.Test.TestName, Category: e.Test.Category})
		}
		idx, ok := rowIdx[e.ClientID]
		if !ok {
			idx = len(rows)
			rowIdx[e.ClientID] = idx
			rows = append(rows, Row{
				ClientID:   e.ClientID,
				ClientName: e.ClientName,
				ClientCode: e.ClientCode,
				Cells:      make(map[string]*Entry),
			})
		}
		cur := rows[idx].Cells[e.Test.TestName]
		if cur == nil || e.SaleCreatedAt.After(cur.SaleCreatedAt) {
			ec := e
			rows[idx].Cells[e.Test.TestName] = &ec
		}
	}

	// Rows keep first-seen order; only columns are regrouped by category.
	sort.SliceStable(columns, func(i, j int) bool {
		ci, cj := categoryOrder[columns[i].Category], categoryOrder[columns[j].Category]
		if ci != cj {
			return ci < cj
		}
		return columns[i].TestName < columns[j].TestName
	})

	return Matrix{Columns: columns, Rows: rows}
}

// ReferralEntry is one externally sourced pending test on the send-out
// list: the entry itself, every lab that prices the test, and the current
// assignment. An unpersisted assignment (zero ID) marks the default lab.
type ReferralEntry struct {
	Entry      Entry               `json:"entry"`
	Labs       []pricing.LabPrice  `json:"labs"`
	Assignment *ReferralAssignment `json:"assignment,omitempty"`
}

// ReferralAssignment records which external lab a sale test was sent to.
// One assignment per sale test; re-dispatching overwrites the lab.
type ReferralAssignment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	SaleID     uuid.UUID `db:"sale_id" json:"saleId"`
	SaleTestID uuid.UUID `db:"sale_test_id" json:"saleTestId"`
	LabID      uuid.UUID `db:"lab_id" json:"labId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
