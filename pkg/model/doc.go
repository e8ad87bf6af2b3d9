// Package model defines the typed values shared by the careforms packages:
// workflow steps, assessment types, section tables and the Template derived
// from them. A Template is an ordered list of panels ("panel-1", "panel-2",
// ...) whose fields carry the data-schema field name as both id and label, so
// the selection map and the generation request speak the same identifiers.
// Candidates come from the static pools compiled into the catalog while
// Profiles are returned by the remote lookup and carry a medical id plus the
// display text used as the canonical candidate name.
package model
