package models

import "github.com/shopspring/decimal"

type ExpenseCategory string

const (
	ExpenseProdutos  ExpenseCategory = "Produtos"
	ExpenseSalarios  ExpenseCategory = "Salários"
	ExpenseAluguel   ExpenseCategory = "Aluguel"
	ExpenseMarketing ExpenseCategory = "Marketing"
	ExpenseOutros    ExpenseCategory = "Outros"
)

var ExpenseCategories = []ExpenseCategory{
	ExpenseProdutos,
	ExpenseSalarios,
	ExpenseAluguel,
	ExpenseMarketing,
	ExpenseOutros,
}

func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Expense struct {
	ID          int64           `json:"id" db:"id"`
	Description string          `json:"description" db:"description"`
	Category    ExpenseCategory `json:"category" db:"category"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Date        Date            `json:"date" db:"date"`
}
