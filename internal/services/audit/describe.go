package audit

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/movetrack/movetrackgo/internal/models"
)

// Description is the decorated form of one audit entry, ready for the
// activity feed: a title, a one-liner, and optional expandable detail lines.
type Description struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Details     []string `json:"details,omitempty"`
}

// Human-readable labels for known field names. Unknown fields fall back to
// camelCase splitting.
var fieldNameMap = map[string]string{
	"moveDate":      "Move Date",
	"customerName":  "Customer Name",
	"customerEmail": "Email",
	"customerPhone": "Phone Number",
	"fromAddress":   "From Address",
	"toAddress":     "To Address",
	"notes":         "Notes",
	"quantity":      "Quantity",
	"photos":        "Photos",
}

// canonicalFieldOrder fixes the order changed fields are listed in, matching
// the order the update diff inspects them. Fields outside the list sort
// alphabetically after it.
var canonicalFieldOrder = []string{
	"customerName",
	"customerEmail",
	"customerPhone",
	"moveDate",
	"fromAddress",
	"toAddress",
	"notes",
	"quantity",
	"photos",
}

func humanizeField(field string) string {
	if label, ok := fieldNameMap[field]; ok {
		return label
	}
	var b strings.Builder
	for i, r := range field {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// formatValue renders ISO-8601-date-shaped strings as "Jan 2, 2006" and
// everything else verbatim.
func formatValue(value string) string {
	if !isoDatePrefix.MatchString(value) {
		return value
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if d, err := time.Parse(layout, value); err == nil {
			return d.Format("Jan 2, 2006")
		}
	}
	return value
}

// changeValue stringifies one side of a change, substituting "(empty)" for
// null or blank values.
func changeValue(v interface{}) string {
	if v == nil {
		return "(empty)"
	}
	s := fmt.Sprintf("%v", v)
	if s == "" {
		return "(empty)"
	}
	return formatValue(s)
}

// orderedFields sorts change-set keys canonically so a feed renders
// deterministically.
func orderedFields(changes ChangeSet) []string {
	rank := make(map[string]int, len(canonicalFieldOrder))
	for i, f := range canonicalFieldOrder {
		rank[f] = i
	}
	fields := make([]string, 0, len(changes))
	for f := range changes {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		ri, iok := rank[fields[i]]
		rj, jok := rank[fields[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		default:
			return fields[i] < fields[j]
		}
	})
	return fields
}

func changeDetails(changes ChangeSet) []string {
	details := make([]string, 0, len(changes))
	for _, field := range orderedFields(changes) {
		change := changes[field]
		details = append(details, fmt.Sprintf("%s: %s → %s",
			humanizeField(field), changeValue(change.Old), changeValue(change.New)))
	}
	return details
}

// decodePayload round-trips the stored JSON map into a typed variant.
func decodePayload(entry models.AuditLogEntry, dst interface{}) bool {
	if entry.Payload == nil {
		return false
	}
	raw, err := json.Marshal(entry.Payload)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// Describe maps an audit entry to its feed rendering. The mapping per
// action kind is fixed; unknown kinds fall back to a humanized action name
// and a generic actor description.
func Describe(entry models.AuditLogEntry) Description {
	switch entry.Action {
	case models.ActionInventoryCreated:
		return Description{
			Title:       "Inventory Created",
			Description: "New inventory started",
		}

	case models.ActionInventoryUpdated:
		var p InventoryUpdatedPayload
		if !decodePayload(entry, &p) || len(p.Changes) == 0 {
			return Description{Title: "Inventory Updated", Description: "Information updated"}
		}
		return Description{
			Title:       "Inventory Updated",
			Description: changesSummary(p.Changes),
			Details:     changeDetails(p.Changes),
		}

	case models.ActionInventorySubmitted:
		var p SubmissionPayload
		decodePayload(entry, &p)
		desc := "Customer submitted inventory for review"
		if p.TotalItems > 0 {
			plural := "s"
			if p.TotalItems == 1 {
				plural = ""
			}
			desc = fmt.Sprintf("Submitted with %d item%s for review", p.TotalItems, plural)
		}
		return Description{
			Title:       "Inventory Submitted",
			Description: desc,
			Details:     submissionDetails(p),
		}

	case models.ActionInventoryLocked:
		return Description{
			Title:       "Inventory Locked",
			Description: "Admin locked inventory — no further changes allowed",
		}

	case models.ActionRoomCreated:
		var p RoomPayload
		decodePayload(entry, &p)
		return Description{
			Title:       "Room Added",
			Description: fmt.Sprintf("Added room: %s", orDefault(p.RoomName, "Room")),
		}

	case models.ActionRoomDeleted:
		var p RoomPayload
		decodePayload(entry, &p)
		return Description{
			Title:       "Room Removed",
			Description: fmt.Sprintf("Removed room: %s", orDefault(p.RoomName, "Room")),
		}

	case models.ActionItemCreated:
		var p ItemCreatedPayload
		decodePayload(entry, &p)
		qty := p.Quantity
		if qty == 0 {
			qty = 1
		}
		desc := fmt.Sprintf("Added %q × %d", orDefault(p.ItemName, "Item"), qty)
		if p.RoomName != "" {
			desc += " in " + p.RoomName
		}
		var details []string
		if p.RoomName != "" {
			details = append(details, "Room: "+p.RoomName)
		}
		if p.Category != nil && *p.Category != "" {
			details = append(details, "Category: "+*p.Category)
		}
		if p.HasPhotos {
			details = append(details, "Added with photos")
		}
		return Description{Title: "Item Added", Description: desc, Details: details}

	case models.ActionItemUpdated:
		var p ItemUpdatedPayload
		decodePayload(entry, &p)
		name := orDefault(p.ItemName, "Item")
		desc := fmt.Sprintf("Updated %q", name)
		if p.RoomName != "" {
			desc += " in " + p.RoomName
		}
		if len(p.Changes) == 1 {
			fields := orderedFields(p.Changes)
			field := fields[0]
			desc = fmt.Sprintf("%q: %s → %s", name, humanizeField(field),
				formatValue(fmt.Sprintf("%v", valueOrEmpty(p.Changes[field].New))))
			if p.RoomName != "" {
				desc += " (" + p.RoomName + ")"
			}
		}
		return Description{
			Title:       "Item Updated",
			Description: desc,
			Details:     changeDetails(p.Changes),
		}

	case models.ActionItemDeleted:
		var p ItemDeletedPayload
		decodePayload(entry, &p)
		desc := fmt.Sprintf("Removed %q", orDefault(p.ItemName, "Item"))
		if p.RoomName != "" {
			desc += " from " + p.RoomName
		}
		return Description{Title: "Item Removed", Description: desc}
	}

	// Fallback for unknown actions
	actorDesc := "Admin action"
	if entry.Actor == models.ActorCustomer {
		actorDesc = "Customer action"
	}
	return Description{
		Title:       titleFromAction(entry.Action),
		Description: actorDesc,
	}
}

// changesSummary builds the one-line description for inventory_updated:
// single-field changes name the field and new value, multi-field changes
// list the field names.
func changesSummary(changes ChangeSet) string {
	fields := orderedFields(changes)
	if len(fields) == 1 {
		field := fields[0]
		newVal := changes[field].New
		if newVal == nil {
			newVal = "empty"
		}
		return fmt.Sprintf("%s set to: %s", humanizeField(field),
			formatValue(fmt.Sprintf("%v", newVal)))
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = humanizeField(f)
	}
	return "Updated: " + strings.Join(names, ", ")
}

// submissionDetails renders the fixed detail list for inventory_submitted,
// each line omitted when its payload field is absent.
func submissionDetails(p SubmissionPayload) []string {
	var details []string
	if p.MoveDate != nil && *p.MoveDate != "" {
		details = append(details, "Move Date: "+formatValue(*p.MoveDate))
	}
	if p.FromAddress != nil && *p.FromAddress != "" {
		details = append(details, "From: "+*p.FromAddress)
	}
	if p.ToAddress != nil && *p.ToAddress != "" {
		details = append(details, "To: "+*p.ToAddress)
	}
	if p.TotalItems > 0 {
		details = append(details, fmt.Sprintf("Total Items: %d", p.TotalItems))
	}
	if p.TotalCuFt != "" {
		details = append(details, fmt.Sprintf("Volume: %s cu ft", p.TotalCuFt))
	}
	if p.TotalWeight != "" {
		details = append(details, fmt.Sprintf("Weight: %s lbs", p.TotalWeight))
	}
	return details
}

func titleFromAction(action string) string {
	words := strings.Split(action, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func valueOrEmpty(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	return v
}
