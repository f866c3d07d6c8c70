/*
Package scheme describes the palette and canvas layout of a visual modeling
surface and provides the staged builder that assembles it.

# Document

A Scheme holds Categories; a Category holds Assets, Containers and
Constructs; a Construct may own one Script; a Script holds FrameGroups of
Frames and LaneGroups of Lanes. Groups carry cardinality Limits, an
AllowedActions bitset, an AllowedEntityTypes tag (ALL, NONE or SPECIFIC) and
groups of mutually exclusive entity types.

Transform, merge and serialization callbacks are held in ref types
(TransformRef, MergeRef, MatchRef, SerializeRef). A ref encodes to JSON as its
registry key; encoding a ref that still holds only a function fails with
ErrInlineCallback. See package registry for the key bridge.

# Builder

New returns a StartStage. Every stage method returns the stage type of the
next phase, so only legal sequences compile:

	s, err := scheme.New(scheme.SchemeInput{Name: "Flow", FileExtension: "flow"}).
		AddCategory("Steps").
		AddAsset(trigger).
		AddConstruct(process).
		AddScript(layout).
		AddFrameGroup(phases).AddFrame(first).
		AddLaneGroup(actors).AddLane(user).
		Build()

Underneath, a Session checks at runtime that the parent scope of each
operation is open and returns a *ConstructionSequenceError otherwise. Stages
keep the first such error and Build returns it.
*/
package scheme
