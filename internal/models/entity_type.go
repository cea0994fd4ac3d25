package models

import "encoding/json"

// EntityKind enumerates the domain objects an action can target. The wire
// tag is an open-ended string, so every consumer must degrade unknown tags
// to KindUnknown rather than failing.
type EntityKind int

const (
	KindUnknown EntityKind = iota
	KindEquipment
	KindMaterial
	KindRFI
	KindInspection
	KindMeeting
	KindArea
	KindContact
	KindDefect
	KindEquipmentSubmission
	KindMaterialSubmission
)

var kindByTag = map[string]EntityKind{
	"equipment":            KindEquipment,
	"material":             KindMaterial,
	"rfi":                  KindRFI,
	"inspection":           KindInspection,
	"meeting":              KindMeeting,
	"area":                 KindArea,
	"contact":              KindContact,
	"defect":               KindDefect,
	"equipment_submission": KindEquipmentSubmission,
	"material_submission":  KindMaterialSubmission,
}

// EntityType pairs the recognized kind with the raw wire tag, so unknown
// tags survive a round trip and can still be shown to the user.
type EntityType struct {
	kind EntityKind
	raw  string
}

// ParseEntityType never fails; unrecognized tags map to KindUnknown.
func ParseEntityType(tag string) EntityType {
	return EntityType{kind: kindByTag[tag], raw: tag}
}

// Kind returns the recognized kind, KindUnknown for foreign tags.
func (t EntityType) Kind() EntityKind { return t.kind }

// Known reports whether the tag was recognized.
func (t EntityType) Known() bool { return t.kind != KindUnknown }

// String returns the raw wire tag.
func (t EntityType) String() string { return t.raw }

// Label returns the human-readable name for the targeted domain object.
// Unknown kinds fall back to the raw tag so the card stays meaningful.
func (t EntityType) Label() string {
	switch t.kind {
	case KindEquipment:
		return "Equipment"
	case KindMaterial:
		return "Material"
	case KindRFI:
		return "RFI"
	case KindInspection:
		return "Inspection"
	case KindMeeting:
		return "Meeting"
	case KindArea:
		return "Area"
	case KindContact:
		return "Contact"
	case KindDefect:
		return "Defect"
	case KindEquipmentSubmission:
		return "Equipment submission"
	case KindMaterialSubmission:
		return "Material submission"
	default:
		if t.raw != "" {
			return t.raw
		}
		return "Item"
	}
}

// Icon returns a one-glyph marker for the card header.
func (t EntityType) Icon() string {
	switch t.kind {
	case KindEquipment:
		return "⚙"
	case KindMaterial:
		return "▤"
	case KindRFI:
		return "?"
	case KindInspection:
		return "✓"
	case KindMeeting:
		return "◷"
	case KindArea:
		return "▦"
	case KindContact:
		return "@"
	case KindDefect:
		return "!"
	case KindEquipmentSubmission, KindMaterialSubmission:
		return "↥"
	default:
		return "•"
	}
}

// MarshalJSON encodes the raw wire tag.
func (t EntityType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.raw)
}

// UnmarshalJSON accepts any string tag.
func (t *EntityType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseEntityType(s)
	return nil
}
