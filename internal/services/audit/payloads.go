package audit

// Every audit action kind carries a fixed payload shape. The variants below
// are the full set; Append serializes whichever one the caller passes, and
// Describe decodes by switching on the action kind.

// FieldChange records one field's old and new value.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// ChangeSet maps field names to their old/new pair.
type ChangeSet map[string]FieldChange

// Payload marks the per-action payload variants.
type Payload interface {
	auditPayload()
}

// InventoryUpdatedPayload accompanies inventory_updated.
type InventoryUpdatedPayload struct {
	Changes ChangeSet `json:"changes"`
}

// SubmissionPayload accompanies inventory_submitted. It is the snapshot the
// admin UI displays without re-joining rooms and items.
type SubmissionPayload struct {
	CustomerName *string `json:"customerName"`
	MoveDate     *string `json:"moveDate"`
	FromAddress  *string `json:"fromAddress"`
	ToAddress    *string `json:"toAddress"`
	TotalItems   int     `json:"totalItems"`
	TotalCuFt    string  `json:"totalCuFt"`
	TotalWeight  string  `json:"totalWeight"`
}

// RoomPayload accompanies room_created and room_deleted.
type RoomPayload struct {
	RoomName string `json:"roomName"`
	Type     string `json:"type"`
}

// ItemCreatedPayload accompanies item_created.
type ItemCreatedPayload struct {
	ItemName  string  `json:"itemName"`
	RoomName  string  `json:"roomName"`
	Category  *string `json:"category,omitempty"`
	Quantity  int     `json:"quantity"`
	HasPhotos bool    `json:"hasPhotos"`
}

// ItemUpdatedPayload accompanies item_updated.
type ItemUpdatedPayload struct {
	ItemName string    `json:"itemName"`
	RoomName string    `json:"roomName"`
	Quantity *int      `json:"quantity,omitempty"`
	Changes  ChangeSet `json:"changes,omitempty"`
}

// ItemDeletedPayload accompanies item_deleted.
type ItemDeletedPayload struct {
	ItemName string `json:"itemName"`
	RoomName string `json:"roomName"`
}

func (InventoryUpdatedPayload) auditPayload() {}
func (SubmissionPayload) auditPayload()       {}
func (RoomPayload) auditPayload()             {}
func (ItemCreatedPayload) auditPayload()      {}
func (ItemUpdatedPayload) auditPayload()      {}
func (ItemDeletedPayload) auditPayload()      {}
