package upstream

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Field alias lists, highest priority first. The first alias present in an
// object wins; later aliases are never consulted once one exists.
var (
	menuDateAliases     = []string{"dato", "Dato", "date"}
	menuSectionAliases  = []string{"menuoverskrifter", "Menuoverskrifter", "MenuOverskrifter", "sections"}
	menuEntryAliases    = []string{"varer", "Varer", "items"}
	menuNameAliases     = []string{"Navn", "navn", "Name", "name"}
	groupListAliases    = []string{"kundegrupper", "Kundegrupper", "groups", "data"}
	groupIDAliases      = []string{"KundegruppeID", "KundegruppeId", "id", "Id", "ID"}
	groupNameAliases    = []string{"Navn", "navn", "Name", "name", "Kundegruppe"}
	appointmentAliases  = []string{"appointments", "aftaler", "data"}
	apptDateAliases     = []string{"date", "Dato", "dato"}
	apptWhatAliases     = []string{"what", "Hvad", "hvad"}
	apptTimeAliases     = []string{"time", "Tid", "tid"}
	apptCommentAliases  = []string{"comment", "Kommentar", "kommentar"}
	apptDescribeAliases = []string{"full_description", "description", "Beskrivelse"}
)

// lookup returns the value of the first alias present in obj.
// The result does not exist when obj is not an object or has none of them.
func lookup(obj gjson.Result, aliases []string) gjson.Result {
	if !obj.IsObject() {
		return gjson.Result{}
	}
	for _, key := range aliases {
		if v := obj.Get(key); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// lookupString returns the trimmed string value of the first present alias.
func lookupString(obj gjson.Result, aliases []string) string {
	return strings.TrimSpace(lookup(obj, aliases).String())
}

// listOf returns doc itself when it is an array, otherwise the first aliased
// array field inside it.
func listOf(doc gjson.Result, aliases []string) (gjson.Result, bool) {
	if doc.IsArray() {
		return doc, true
	}
	if v := lookup(doc, aliases); v.IsArray() {
		return v, true
	}
	return gjson.Result{}, false
}
