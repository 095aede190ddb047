package domain

// MaxProgress caps progress_percentage.
const MaxProgress = 100.0

// AmountBeforeTax strips tax from a gross amount: with / (1 + pct/100).
func AmountBeforeTax(amountWithTax, taxPercentage float64) float64 {
	return amountWithTax / (1 + taxPercentage/100)
}

// SumIncomes totals AmountBeforeTax.
func SumIncomes(incomes []Income) float64 {
	var total float64
	for _, i := range incomes {
		total += i.AmountBeforeTax
	}
	return total
}

// SumExpenses totals Amount.
func SumExpenses(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// WorkerIndex maps worker ids to workers for payment lookups.
type WorkerIndex map[string]Worker

// IndexWorkers builds a WorkerIndex. Later duplicates win.
func IndexWorkers(workers []Worker) WorkerIndex {
	idx := make(WorkerIndex, len(workers))
	for _, w := range workers {
		idx[w.ID] = w
	}
	return idx
}

// WorkerPayments accrues each daily worker's payment amount once per work log
// that lists them. Hourly and monthly workers, and ids with no worker record,
// contribute nothing.
func WorkerPayments(logs []WorkLog, workers WorkerIndex) float64 {
	var total float64
	for _, l := range logs {
		for _, id := range l.Workers {
			w, ok := workers[id]
			if !ok {
				continue
			}
			if w.PaymentType == PaymentDaily {
				total += w.PaymentAmount
			}
		}
	}
	return total
}

// Progress weighs each work log's completion by the matching section's share
// and clamps the result to MaxProgress. Logs naming an unknown section, or a
// work addition, contribute nothing.
func Progress(p Project, logs []WorkLog) float64 {
	if len(p.WorkSections) == 0 {
		return 0
	}
	var done float64
	for _, l := range logs {
		s, ok := p.Section(l.WorkSection)
		if !ok {
			continue
		}
		done += l.WorkPercentage * s.Percentage / 100
	}
	if done > MaxProgress {
		return MaxProgress
	}
	return done
}

// Totals is the money side of a report.
type Totals struct {
	TotalIncomes   float64 `json:"total_incomes"`
	TotalExpenses  float64 `json:"total_expenses"`
	WorkerPayments float64 `json:"worker_payments"`
	Profit         float64 `json:"profit"`
}

// ComputeTotals reduces record sets into Totals with
// profit = incomes - expenses - worker payments.
func ComputeTotals(incomes []Income, expenses []Expense, logs []WorkLog, workers WorkerIndex) Totals {
	t := Totals{
		TotalIncomes:   SumIncomes(incomes),
		TotalExpenses:  SumExpenses(expenses),
		WorkerPayments: WorkerPayments(logs, workers),
	}
	t.Profit = t.TotalIncomes - t.TotalExpenses - t.WorkerPayments
	return t
}
