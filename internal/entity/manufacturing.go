// Shop floor records: machines, work orders, production plans and quality
// checks.

package entity

import "strings"

// Machine is a piece of shop floor equipment.
type Machine struct {
	ID     string `json:"id" jsonschema:"description=Unique machine identifier"`
	Name   string `json:"name" jsonschema:"description=Machine label,minLength=3"`
	Type   string `json:"type" jsonschema:"description=Equipment category,enum=CNC,enum=Lathe,enum=Welding,enum=Press,enum=Medical Scanner,enum=Diagnostic,enum=Other"`
	Status string `json:"status" jsonschema:"description=Operational status,enum=Available,enum=In Use,enum=Maintenance,enum=Broken"`
}

// Clone returns a copy of the Machine.
func (m *Machine) Clone() *Machine {
	c := *m
	return &c
}

// GetID returns the Machine's ID.
func (m *Machine) GetID() string {
	return m.ID
}

// SetID sets the Machine's ID.
func (m *Machine) SetID(id string) {
	m.ID = id
}

// Validate checks that the Machine is valid.
func (m *Machine) Validate() error {
	if err := minLen("name", &m.Name, 3); err != nil {
		return err
	}
	if err := oneOf("type", &m.Type, MachineTypes); err != nil {
		return err
	}
	return oneOf("status", &m.Status, MachineStatuses)
}

// WorkOrder is a unit of production work, optionally assigned to a machine.
type WorkOrder struct {
	ID          string  `json:"id" jsonschema:"description=Unique work order identifier"`
	OrderNumber string  `json:"orderNumber" jsonschema:"description=Human readable order number"`
	MachineID   *string `json:"machineId" jsonschema:"description=Assigned machine or null when unassigned"`
	Description string  `json:"description" jsonschema:"description=What has to be produced"`
	Status      string  `json:"status" jsonschema:"enum=Pending,enum=In Progress,enum=Completed,enum=On Hold"`
	DueDate     string  `json:"dueDate" jsonschema:"description=Due date (YYYY-MM-DD),format=date"`
}

// Clone returns a deep copy of the WorkOrder.
func (w *WorkOrder) Clone() *WorkOrder {
	c := *w
	if w.MachineID != nil {
		id := *w.MachineID
		c.MachineID = &id
	}
	return &c
}

// GetID returns the WorkOrder's ID.
func (w *WorkOrder) GetID() string {
	return w.ID
}

// SetID sets the WorkOrder's ID.
func (w *WorkOrder) SetID(id string) {
	w.ID = id
}

// Validate checks that the WorkOrder is valid.
func (w *WorkOrder) Validate() error {
	if err := minLen("orderNumber", &w.OrderNumber, 1); err != nil {
		return err
	}
	if w.MachineID != nil && strings.TrimSpace(*w.MachineID) == "" {
		w.MachineID = nil
	}
	w.Description = strings.TrimSpace(w.Description)
	if err := oneOf("status", &w.Status, WorkOrderStatuses); err != nil {
		return err
	}
	return date("dueDate", &w.DueDate)
}

// ProductionPlan schedules the output of a work order.
type ProductionPlan struct {
	ID             string `json:"id"`
	PlanName       string `json:"planName" jsonschema:"description=Plan label"`
	WorkOrderID    string `json:"workOrderId" jsonschema:"description=Work order being planned"`
	StartDate      string `json:"startDate" jsonschema:"format=date"`
	EndDate        string `json:"endDate" jsonschema:"format=date"`
	OutputQuantity int    `json:"outputQuantity" jsonschema:"description=Planned number of units,minimum=0"`
	Status         string `json:"status" jsonschema:"enum=Planned,enum=In Progress,enum=Completed,enum=Cancelled"`
}

// Clone returns a copy of the ProductionPlan.
func (p *ProductionPlan) Clone() *ProductionPlan {
	c := *p
	return &c
}

// GetID returns the ProductionPlan's ID.
func (p *ProductionPlan) GetID() string {
	return p.ID
}

// SetID sets the ProductionPlan's ID.
func (p *ProductionPlan) SetID(id string) {
	p.ID = id
}

// Validate checks that the ProductionPlan is valid.
func (p *ProductionPlan) Validate() error {
	if err := minLen("planName", &p.PlanName, 1); err != nil {
		return err
	}
	if p.OutputQuantity < 0 {
		return fieldErr("outputQuantity", "cannot be negative")
	}
	if err := dateOrder("startDate", &p.StartDate, "endDate", &p.EndDate); err != nil {
		return err
	}
	p.WorkOrderID = strings.TrimSpace(p.WorkOrderID)
	return oneOf("status", &p.Status, ProductionPlanStatuses)
}

// QualityCheck is an inspection of parts produced by a work order.
type QualityCheck struct {
	ID            string `json:"id"`
	WorkOrderID   string `json:"workOrderId"`
	PartNumber    string `json:"partNumber" jsonschema:"description=Inspected part"`
	CheckDate     string `json:"checkDate" jsonschema:"format=date"`
	InspectorName string `json:"inspectorName"`
	Result        string `json:"result" jsonschema:"enum=Pass,enum=Fail,enum=Rework"`
	Notes         string `json:"notes"`
}

// Clone returns a copy of the QualityCheck.
func (q *QualityCheck) Clone() *QualityCheck {
	c := *q
	return &c
}

// GetID returns the QualityCheck's ID.
func (q *QualityCheck) GetID() string {
	return q.ID
}

// SetID sets the QualityCheck's ID.
func (q *QualityCheck) SetID(id string) {
	q.ID = id
}

// Validate checks that the QualityCheck is valid.
func (q *QualityCheck) Validate() error {
	if err := minLen("partNumber", &q.PartNumber, 1); err != nil {
		return err
	}
	if err := date("checkDate", &q.CheckDate); err != nil {
		return err
	}
	q.WorkOrderID = strings.TrimSpace(q.WorkOrderID)
	q.InspectorName = strings.TrimSpace(q.InspectorName)
	return oneOf("result", &q.Result, QualityCheckResults)
}
