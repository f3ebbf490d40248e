// Package graph emits the derived food graph as a forward-only row stream.
// Rows go either to a bulk-import TSV file or straight into a Bolt database.
package graph

// Node labels.
const (
	LabelProduct           = "Product"
	LabelIngredient        = "Ingredient"
	LabelAllergen          = "Allergen"
	LabelDietaryPreference = "DietaryPreference"
)

// Relationship types.
const (
	RelHasIngredient      = "HAS_INGREDIENT"
	RelIsAllergen         = "IS_ALLERGEN"
	RelMayContainAllergen = "MAY_CONTAIN_ALLERGEN"
	RelConflictsWithDiet  = "CONFLICTS_WITH_DIET"
	RelIsSuitableFor      = "IS_SUITABLE_FOR"
)

// Line types.
const (
	LineTypeNode         = "Node"
	LineTypeRelationship = "Relationship"
)

// Header is the 9-column header row of the bulk-import stream.
var Header = []string{
	"LineType", "ID", "Name", "Label",
	"RelationshipType", "FromID", "FromLabel", "ToID", "ToLabel",
}

// Row is one line of the output stream. Node rows fill the first four
// columns; relationship rows fill LineType plus the last four.
type Row struct {
	LineType         string
	ID               string
	Name             string
	Label            string
	RelationshipType string
	FromID           string
	FromLabel        string
	ToID             string
	ToLabel          string
}

// NodeRow builds a node row for the given identity, display name and label.
func NodeRow(id, name, label string) Row {
	return Row{
		LineType: LineTypeNode,
		ID:       id,
		Name:     name,
		Label:    label,
	}
}

// RelationshipRow builds a relationship row between two node identities.
func RelationshipRow(relType, fromID, fromLabel, toID, toLabel string) Row {
	return Row{
		LineType:         LineTypeRelationship,
		RelationshipType: relType,
		FromID:           fromID,
		FromLabel:        fromLabel,
		ToID:             toID,
		ToLabel:          toLabel,
	}
}

// Fields returns the row's columns in header order.
func (r Row) Fields() []string {
	return []string{
		r.LineType, r.ID, r.Name, r.Label,
		r.RelationshipType, r.FromID, r.FromLabel, r.ToID, r.ToLabel,
	}
}
