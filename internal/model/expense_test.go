package model

import (
	"testing"
	"time"
)

func TestExpenseDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		draft   ExpenseDraft
		wantErr bool
	}{
		{
			name: "valid draft",
			draft: ExpenseDraft{
				Amount:      1500,
				Description: "Sushi",
				CategoryID:  "1",
				Date:        time.Now(),
			},
			wantErr: false,
		},
		{
			name: "zero amount",
			draft: ExpenseDraft{
				Description: "Sushi",
				CategoryID:  "1",
			},
			wantErr: true,
			errMsg:  "amount must be positive, got 0.00",
		},
		{
			name: "negative amount",
			draft: ExpenseDraft{
				Amount:      -5,
				Description: "Sushi",
				CategoryID:  "1",
			},
			wantErr: true,
			errMsg:  "amount must be positive, got -5.00",
		},
		{
			name: "missing description",
			draft: ExpenseDraft{
				Amount:     1500,
				CategoryID: "1",
			},
			wantErr: true,
			errMsg:  "description is required",
		},
		{
			name: "missing category",
			draft: ExpenseDraft{
				Amount:      1500,
				Description: "Sushi",
			},
			wantErr: true,
			errMsg:  "category id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errMsg != "" && err.Error() != tt.errMsg {
				t.Errorf("Validate() error = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestExpenseDraft_HasResolvedCategory(t *testing.T) {
	tests := []struct {
		name       string
		categoryID string
		want       bool
	}{
		{name: "specific category", categoryID: "3", want: true},
		{name: "catch-all category", categoryID: CatchAllCategoryID, want: false},
		{name: "empty category", categoryID: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := ExpenseDraft{CategoryID: tt.categoryID}
			if got := draft.HasResolvedCategory(); got != tt.want {
				t.Errorf("HasResolvedCategory() = %v, want %v", got, tt.want)
			}
		})
	}
}
