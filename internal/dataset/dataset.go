package dataset

// CriticalRow holds the headline metadata shown in the critical-data table.
type CriticalRow struct {
	ContractID       string `json:"contract_id"`
	Engagement       string `json:"engagement"`
	ContractType     string `json:"contract_type"`
	ContractCoverage string `json:"contract_coverage"`
	Geography        string `json:"geography"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
}

// CommercialRow holds the commercial terms table.
type CommercialRow struct {
	ContractID         string  `json:"contract_id"`
	TotalContractValue float64 `json:"total_contract_value"`
	Currency           string  `json:"currency"`
	PaymentTerms       string  `json:"payment_terms"`
	BillingFrequency   string  `json:"billing_frequency"`
}

// LegalRow holds the legal terms table.
type LegalRow struct {
	ContractID            string `json:"contract_id"`
	GoverningLaw          string `json:"governing_law"`
	LiabilityCap          string `json:"liability_cap"`
	Indemnification       string `json:"indemnification"`
	TerminationNoticeDays int    `json:"termination_notice_days"`
}

// Catalog is one consistent set of sample tables. The three tables are
// parallel: row i of each describes the same contract.
type Catalog struct {
	Critical   []CriticalRow   `json:"critical"`
	Commercial []CommercialRow `json:"commercial"`
	Legal      []LegalRow      `json:"legal"`
}

// Size returns the number of complete rows across all three tables.
func (c *Catalog) Size() int {
	n := len(c.Critical)
	if len(c.Commercial) < n {
		n = len(c.Commercial)
	}
	if len(c.Legal) < n {
		n = len(c.Legal)
	}
	return n
}

// Slice returns a catalog truncated to the first n rows, capped at Size.
// Displayed row count always equals min(n, available rows).
func (c *Catalog) Slice(n int) *Catalog {
	if n < 0 {
		n = 0
	}
	if size := c.Size(); n > size {
		n = size
	}
	return &Catalog{
		Critical:   append([]CriticalRow(nil), c.Critical[:n]...),
		Commercial: append([]CommercialRow(nil), c.Commercial[:n]...),
		Legal:      append([]LegalRow(nil), c.Legal[:n]...),
	}
}

// Default returns the built-in 13-row sample catalog.
func Default() *Catalog {
	return &Catalog{
		Critical: []CriticalRow{
			{"CTR-001", "Transportation & Logistics", "Master Service Agreement", "Global", "North America", "2023-01-01", "2025-12-31"},
			{"CTR-002", "Warehousing & Storage", "Statement of Work", "Regional", "Europe", "2023-03-15", "2024-03-14"},
			{"CTR-003", "Customer Contracts", "License Agreement", "Country", "APAC", "2022-07-01", "2025-06-30"},
			{"CTR-004", "Transportation & Logistics", "Master Service Agreement", "Regional", "Europe", "2023-05-01", "2026-04-30"},
			{"CTR-005", "Warehousing & Storage", "Service Level Agreement", "Global", "North America", "2024-01-01", "2024-12-31"},
			{"CTR-006", "Customer Contracts", "Statement of Work", "Country", "LATAM", "2023-09-01", "2025-08-31"},
			{"CTR-007", "Transportation & Logistics", "Framework Agreement", "Global", "APAC", "2022-11-15", "2025-11-14"},
			{"CTR-008", "Warehousing & Storage", "Master Service Agreement", "Regional", "North America", "2024-02-01", "2027-01-31"},
			{"CTR-009", "Customer Contracts", "License Agreement", "Global", "Europe", "2023-06-01", "2026-05-31"},
			{"CTR-010", "Transportation & Logistics", "Statement of Work", "Country", "North America", "2024-04-01", "2025-03-31"},
			{"CTR-011", "Warehousing & Storage", "Framework Agreement", "Regional", "APAC", "2023-08-15", "2026-08-14"},
			{"CTR-012", "Customer Contracts", "Service Level Agreement", "Global", "LATAM", "2024-03-01", "2025-02-28"},
			{"CTR-013", "Transportation & Logistics", "License Agreement", "Regional", "Europe", "2023-12-01", "2026-11-30"},
		},
		Commercial: []CommercialRow{
			{"CTR-001", 2450000, "USD", "Net 30", "Monthly"},
			{"CTR-002", 380000, "EUR", "Net 45", "Quarterly"},
			{"CTR-003", 1120000, "USD", "Net 60", "Annual"},
			{"CTR-004", 1975000, "EUR", "Net 30", "Monthly"},
			{"CTR-005", 640000, "USD", "Net 30", "Monthly"},
			{"CTR-006", 295000, "USD", "Net 45", "Quarterly"},
			{"CTR-007", 3310000, "USD", "Net 60", "Annual"},
			{"CTR-008", 870000, "USD", "Net 30", "Monthly"},
			{"CTR-009", 1540000, "EUR", "Net 45", "Quarterly"},
			{"CTR-010", 420000, "USD", "Net 30", "Monthly"},
			{"CTR-011", 990000, "USD", "Net 60", "Annual"},
			{"CTR-012", 515000, "USD", "Net 45", "Quarterly"},
			{"CTR-013", 1260000, "EUR", "Net 30", "Monthly"},
		},
		Legal: []LegalRow{
			{"CTR-001", "New York", "12 months fees", "Mutual", 90},
			{"CTR-002", "Germany", "6 months fees", "One-way", 60},
			{"CTR-003", "Singapore", "Uncapped", "Mutual", 120},
			{"CTR-004", "England & Wales", "12 months fees", "Mutual", 90},
			{"CTR-005", "Delaware", "3 months fees", "One-way", 30},
			{"CTR-006", "Brazil", "6 months fees", "Mutual", 60},
			{"CTR-007", "Hong Kong", "12 months fees", "Mutual", 120},
			{"CTR-008", "Delaware", "6 months fees", "One-way", 60},
			{"CTR-009", "France", "12 months fees", "Mutual", 90},
			{"CTR-010", "New York", "3 months fees", "One-way", 30},
			{"CTR-011", "Australia", "6 months fees", "Mutual", 90},
			{"CTR-012", "Mexico", "6 months fees", "One-way", 60},
			{"CTR-013", "Ireland", "12 months fees", "Mutual", 90},
		},
	}
}
