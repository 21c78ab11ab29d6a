// Package rules stores game rule metadata and assembles prompts from it.
//
// Rule documents are split into canonical sections (Overview, Game Objective,
// Game Setup and so on) and persisted in an embedded chromem-go vector store,
// one document per section, keyed by game name in the metadata. Fetch
// reassembles the sections into a GameMetadata for prompt building.
//
// Two prompt builders cover the two generation roles: BuildCodePrompt turns
// stored metadata into a code-generation request, and BuildRulesPrompt asks
// for the rules of a game the store does not know yet.
package rules
