package scheme

// builder carries the session shared by every stage handle and the first
// error it reported. Once an error is recorded every later call is a no-op,
// so the document stays as it was before the failing call.
type builder struct {
	session *Session
	err     error
}

func (b *builder) do(op func() error) {
	if b.err != nil {
		return
	}
	if err := op(); err != nil {
		b.err = err
	}
}

func (b *builder) build() (*Scheme, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.session.Build(), nil
}

// New starts a fluent build. Each call returns a stage whose methods are the
// operations legal from that phase:
//
//	scheme.New(in).
//		AddCategory("Flow").
//		AddConstruct(c).
//		AddScript(s).
//		AddFrameGroup(fg).AddFrame(f).
//		AddLaneGroup(lg).AddLane(l).
//		Build()
func New(in SchemeInput) StartStage {
	return StartStage{b: &builder{session: NewSession(in)}}
}

// StartStage is the phase before any category exists.
type StartStage struct {
	b *builder
}

// WithSerializationRules sets the scheme's serialization rules.
func (s StartStage) WithSerializationRules(rules ...SerializationRule) StartStage {
	s.b.do(func() error { return s.b.session.WithSerializationRules(rules) })
	return s
}

// WithViewModes sets the scheme's view modes.
func (s StartStage) WithViewModes(modes ...ViewMode) StartStage {
	s.b.do(func() error { return s.b.session.WithViewModes(modes) })
	return s
}

// AddCategory opens the first category.
func (s StartStage) AddCategory(name string) CategoryStage {
	s.b.do(func() error { return s.b.session.AddCategory(name) })
	return CategoryStage{b: s.b}
}

// Build returns the document or the first error recorded.
func (s StartStage) Build() (*Scheme, error) {
	return s.b.build()
}

// CategoryStage is the phase with an open category. Its operations are also
// available from every deeper stage and implicitly close the deeper scopes.
type CategoryStage struct {
	b *builder
}

// AddCategory closes the current category and opens a new one.
func (c CategoryStage) AddCategory(name string) CategoryStage {
	c.b.do(func() error { return c.b.session.AddCategory(name) })
	return CategoryStage{b: c.b}
}

// AddAsset appends an asset to the open category.
func (c CategoryStage) AddAsset(asset Asset) CategoryStage {
	c.b.do(func() error { return c.b.session.AddAsset(asset) })
	return CategoryStage{b: c.b}
}

// AddContainer appends a container to the open category.
func (c CategoryStage) AddContainer(container Container) CategoryStage {
	c.b.do(func() error { return c.b.session.AddContainer(container) })
	return CategoryStage{b: c.b}
}

// AddConstruct appends a construct and opens it. A script already set on the
// input is kept as given; call AddScript to build one group by group.
func (c CategoryStage) AddConstruct(construct Construct) ConstructStage {
	c.b.do(func() error { return c.b.session.AddConstruct(construct) })
	return ConstructStage{CategoryStage{b: c.b}}
}

// Err returns the first error recorded so far.
func (c CategoryStage) Err() error {
	return c.b.err
}

// Build returns the document or the first error recorded.
func (c CategoryStage) Build() (*Scheme, error) {
	return c.b.build()
}

// ConstructStage is the phase with an open construct.
type ConstructStage struct {
	CategoryStage
}

// WithZones sets the dock zones of the open construct.
func (c ConstructStage) WithZones(zones ...DockZone) ConstructStage {
	c.b.do(func() error { return c.b.session.WithZones(zones) })
	return c
}

// AddScript attaches a script to the open construct and opens it.
func (c ConstructStage) AddScript(script Script) ScriptStage {
	c.b.do(func() error { return c.b.session.AddScript(script) })
	return ScriptStage{c.CategoryStage}
}

// ScriptStage is the phase with an open script and no open group.
type ScriptStage struct {
	CategoryStage
}

// AddFrameGroup appends a frame group to the open script and opens it.
func (s ScriptStage) AddFrameGroup(group FrameGroup) FrameGroupStage {
	return addFrameGroup(s.b, group)
}

// AddLaneGroup appends a lane group to the open script and opens it.
func (s ScriptStage) AddLaneGroup(group LaneGroup) LaneGroupStage {
	return addLaneGroup(s.b, group)
}

// FrameGroupStage is the phase with an open frame group.
type FrameGroupStage struct {
	CategoryStage
}

// AddFrame appends a frame to the open frame group.
func (f FrameGroupStage) AddFrame(frame Frame) FrameGroupStage {
	f.b.do(func() error { return f.b.session.AddFrame(frame) })
	return f
}

// AddFrameGroup closes the open frame group and opens a new one.
func (f FrameGroupStage) AddFrameGroup(group FrameGroup) FrameGroupStage {
	return addFrameGroup(f.b, group)
}

// AddLaneGroup closes the open frame group and opens a lane group.
func (f FrameGroupStage) AddLaneGroup(group LaneGroup) LaneGroupStage {
	return addLaneGroup(f.b, group)
}

// LaneGroupStage is the phase with an open lane group.
type LaneGroupStage struct {
	CategoryStage
}

// AddLane appends a lane to the open lane group.
func (l LaneGroupStage) AddLane(lane Lane) LaneGroupStage {
	l.b.do(func() error { return l.b.session.AddLane(lane) })
	return l
}

// AddLaneGroup closes the open lane group and opens a new one.
func (l LaneGroupStage) AddLaneGroup(group LaneGroup) LaneGroupStage {
	return addLaneGroup(l.b, group)
}

// AddFrameGroup closes the open lane group and opens a frame group.
func (l LaneGroupStage) AddFrameGroup(group FrameGroup) FrameGroupStage {
	return addFrameGroup(l.b, group)
}

func addFrameGroup(b *builder, group FrameGroup) FrameGroupStage {
	b.do(func() error { return b.session.AddFrameGroup(group) })
	return FrameGroupStage{CategoryStage{b: b}}
}

func addLaneGroup(b *builder, group LaneGroup) LaneGroupStage {
	b.do(func() error { return b.session.AddLaneGroup(group) })
	return LaneGroupStage{CategoryStage{b: b}}
}
