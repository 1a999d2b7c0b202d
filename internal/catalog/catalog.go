// Package catalog holds the fixed mapping of document categories to the
// document types allowed under each of them.
package catalog

const (
	AllCategories    = "All Categories"
	AllDocumentTypes = "All Document Types"
)

type entry struct {
	category string
	types    []string
}

var registry = []entry{
	{"Disbursement Vouchers/ Payrolls w/ supporting documents", []string{
		"Disbursement vouchers",
		"Payroll slips",
		"Invoices for services rendered",
		"Purchase orders (POs)",
		"Vendor contracts or agreements",
		"Receipts for reimbursable expenses",
	}},
	{"Official Receipts and Supporting Documents", []string{
		"Official receipts (ORs) from vendors or clients",
		"Acknowledgment receipts",
		"Payment confirmations or transaction receipts",
	}},
	{"Liquidation of Cash Advance and Supporting Documents", []string{
		"Liquidation reports for advances",
		"Receipts for cash advance spending",
		"Hotel or travel expense invoices",
		"Petty cash replenishment documents",
	}},
	{"BIR FORMS - 2307 - Withholding tax certs", []string{
		"BIR Form 2307 - Certificate of Withholding Tax",
		"BIR Form 2316 - Certificate of Compensation Payment/Tax Withheld",
		"Other tax forms required for compliance",
	}},
	{"General Ledger", []string{
		"Ledger reports summarizing income and expenses",
		"Monthly financial summaries",
	}},
	{"Subsidary Ledger", []string{
		"Records for accounts receivable",
		"Records for accounts payable",
		"Detailed ledger breakdowns for specific customers, vendors, or accounts",
	}},
	{"Financial Statements", []string{
		"Balance Sheets",
		"Income Statements",
		"Cash Flow Statements",
		"Statement of Changes in Equity",
	}},
	{"Trial Balance", []string{
		"Trial balance summary for a specific accounting period",
	}},
	{"Certifications", []string{
		"Tax clearance certificates",
		"Employment or income certifications",
		"Compliance certificates (e.g., BIR clearance)",
	}},
	{"Special orders/ Memorandums", []string{
		"Internal memorandums",
		"Special orders for financial or operational tasks",
	}},
	{"Budget Utilization Slips", []string{
		"Budget slips for allocated funds",
		"Expense allocation sheets",
		"Approval slips for fund utilization",
	}},
	{"Fund Utilization Reports and Supporting Documents", []string{
		"Reports on fund usage",
		"Receipts related to fund spending",
		"Expense breakdowns",
	}},
	{"Liquidation Reports and Supporting Documents", []string{
		"Detailed liquidation reports for funds used",
		"Invoices and receipts supporting liquidation claims",
		"Expense justifications",
	}},
	{"Memorandum of Agreement and Supporting Documents", []string{
		"Signed Memorandum of Agreement (MOA)",
		"Supporting documents like correspondence or annexes",
	}},
	{"Journals , Journal Entry Vouchers", []string{
		"Daily journal entries",
		"Journal entry vouchers for corrections or adjustments",
		"Manual journal entries",
	}},
	{"Free higher education billing and supporting documents", []string{
		"Higher education billing statements",
		"Supporting documentation for grants or scholarships",
	}},
	{"Billing statements and supporting docs", []string{
		"Utility bills (e.g., electricity, water, internet)",
		"Service billing invoices",
		"Payment schedules for clients",
		"Credit card statements",
	}},
}

var (
	byCategory = make(map[string][]string, len(registry))
	knownTypes = make(map[string]struct{})
)

func init() {
	for _, e := range registry {
		byCategory[e.category] = e.types
		for _, t := range e.types {
			knownTypes[t] = struct{}{}
		}
	}
}

// Categories returns every category name in registry order.
func Categories() []string {
	out := make([]string, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.category)
	}
	return out
}

// DocumentTypesFor returns the ordered document types of category, or nil
// when the category is unknown.
func DocumentTypesFor(category string) []string {
	types, ok := byCategory[category]
	if !ok {
		return nil
	}
	out := make([]string, len(types))
	copy(out, types)
	return out
}

func IsKnownCategory(category string) bool {
	_, ok := byCategory[category]
	return ok
}

// IsKnownDocumentType reports whether t belongs to any category.
func IsKnownDocumentType(t string) bool {
	_, ok := knownTypes[t]
	return ok
}

// IsValidPair reports whether documentType is listed under category.
func IsValidPair(category, documentType string) bool {
	for _, t := range byCategory[category] {
		if t == documentType {
			return true
		}
	}
	return false
}
