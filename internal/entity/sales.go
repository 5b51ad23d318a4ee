// Customer facing records: customers, deals and invoices.

package entity

import "strings"

// Customer is a client or prospect.
type Customer struct {
	ID          string `json:"id"`
	Name        string `json:"name" jsonschema:"description=Contact name"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Status      string `json:"status" jsonschema:"enum=Lead,enum=Active,enum=Inactive"`
}

// Clone returns a copy of the Customer.
func (c *Customer) Clone() *Customer {
	n := *c
	return &n
}

// GetID returns the Customer's ID.
func (c *Customer) GetID() string {
	return c.ID
}

// SetID sets the Customer's ID.
func (c *Customer) SetID(id string) {
	c.ID = id
}

// Validate checks that the Customer is valid.
func (c *Customer) Validate() error {
	if err := minLen("name", &c.Name, 1); err != nil {
		return err
	}
	c.CompanyName = strings.TrimSpace(c.CompanyName)
	c.Phone = strings.TrimSpace(c.Phone)
	if err := optionalEmail("email", &c.Email); err != nil {
		return err
	}
	return oneOf("status", &c.Status, CustomerStatuses)
}

// SalesDeal is an opportunity in the sales pipeline.
type SalesDeal struct {
	ID         string  `json:"id"`
	DealName   string  `json:"dealName"`
	CustomerID string  `json:"customerId"`
	Stage      string  `json:"stage" jsonschema:"enum=Prospect,enum=Qualification,enum=Proposal,enum=Negotiation,enum=Closed Won,enum=Closed Lost"`
	Value      float64 `json:"value" jsonschema:"description=Expected deal value,minimum=0"`
	CloseDate  string  `json:"closeDate" jsonschema:"format=date"`
}

// Clone returns a copy of the SalesDeal.
func (d *SalesDeal) Clone() *SalesDeal {
	c := *d
	return &c
}

// GetID returns the SalesDeal's ID.
func (d *SalesDeal) GetID() string {
	return d.ID
}

// SetID sets the SalesDeal's ID.
func (d *SalesDeal) SetID(id string) {
	d.ID = id
}

// Open reports whether the deal is still in the pipeline.
func (d *SalesDeal) Open() bool {
	return d.Stage != DealClosedWon && d.Stage != DealClosedLost
}

// Validate checks that the SalesDeal is valid.
func (d *SalesDeal) Validate() error {
	if err := minLen("dealName", &d.DealName, 1); err != nil {
		return err
	}
	d.CustomerID = strings.TrimSpace(d.CustomerID)
	if err := nonNegative("value", d.Value); err != nil {
		return err
	}
	if err := date("closeDate", &d.CloseDate); err != nil {
		return err
	}
	return oneOf("stage", &d.Stage, SalesDealStages)
}

// Invoice is a bill sent to a customer.
type Invoice struct {
	ID            string     `json:"id"`
	InvoiceNumber string     `json:"invoiceNumber"`
	CustomerID    string     `json:"customerId" jsonschema:"description=Billed customer"`
	IssueDate     string     `json:"issueDate" jsonschema:"format=date"`
	DueDate       string     `json:"dueDate" jsonschema:"format=date"`
	Items         []LineItem `json:"items" jsonschema:"minItems=1"`
	TotalAmount   float64    `json:"totalAmount" jsonschema:"description=Sum of the line amounts; computed"`
	Status        string     `json:"status" jsonschema:"enum=Draft,enum=Sent,enum=Paid,enum=Overdue,enum=Cancelled"`
}

// Clone returns a deep copy of the Invoice.
func (i *Invoice) Clone() *Invoice {
	c := *i
	if i.Items != nil {
		c.Items = append([]LineItem(nil), i.Items...)
	}
	return &c
}

// GetID returns the Invoice's ID.
func (i *Invoice) GetID() string {
	return i.ID
}

// SetID sets the Invoice's ID.
func (i *Invoice) SetID(id string) {
	i.ID = id
}

// Outstanding reports whether the invoice still has to be paid.
func (i *Invoice) Outstanding() bool {
	return i.Status != InvoicePaid && i.Status != InvoiceCancelled && i.Status != InvoiceDraft
}

// Validate checks that the Invoice is valid and recomputes its total.
func (i *Invoice) Validate() error {
	if err := minLen("customerId", &i.CustomerID, 1); err != nil {
		return err
	}
	i.InvoiceNumber = strings.TrimSpace(i.InvoiceNumber)
	if err := dateOrder("issueDate", &i.IssueDate, "dueDate", &i.DueDate); err != nil {
		return err
	}
	if len(i.Items) == 0 {
		return fieldErr("items", "at least one line item is required")
	}
	for n := range i.Items {
		item := &i.Items[n]
		if err := minLen("items.description", &item.Description, 3); err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return fieldErr("items.quantity", "must be greater than zero")
		}
		if err := nonNegative("items.unitPrice", item.UnitPrice); err != nil {
			return err
		}
	}
	i.TotalAmount = lineTotal(i.Items)
	return oneOf("status", &i.Status, InvoiceStatuses)
}
