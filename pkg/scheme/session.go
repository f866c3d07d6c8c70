package scheme

import "errors"

// ErrSessionBuilt is returned by any operation on a Session after Build.
var ErrSessionBuilt = errors.New("scheme: session already built")

// SchemeInput seeds a build session with the top-level Scheme fields.
type SchemeInput struct {
	Name               string
	FileExtension      string
	DefaultConstruct   string
	Categories         []*Category
	SerializationRules []SerializationRule
	ViewModes          []ViewMode
}

// Session is the mutable state of one build. It tracks the currently open
// scope at every nesting level and checks, at runtime, that an operation's
// parent scope is open before touching the document.
//
// Most callers should use New, whose stage types only expose the operations
// that are legal next. Session is the layer underneath, for callers that
// drive the builder from data (see package schemefile).
//
// A Session is not safe for concurrent use.
type Session struct {
	scheme *Scheme
	built  bool

	category   *Category
	construct  *Construct
	script     *Script
	frameGroup *FrameGroup
	laneGroup  *LaneGroup
}

// NewSession starts a build session.
func NewSession(in SchemeInput) *Session {
	categories := append([]*Category{}, in.Categories...)
	return &Session{
		scheme: &Scheme{
			Name:               in.Name,
			FileExtension:      in.FileExtension,
			DefaultConstruct:   in.DefaultConstruct,
			Categories:         categories,
			SerializationRules: in.SerializationRules,
			ViewModes:          in.ViewModes,
		},
	}
}

// WithSerializationRules replaces the scheme's serialization rules.
func (s *Session) WithSerializationRules(rules []SerializationRule) error {
	if s.built {
		return ErrSessionBuilt
	}
	s.scheme.SerializationRules = append([]SerializationRule{}, rules...)
	return nil
}

// WithViewModes replaces the scheme's view modes.
func (s *Session) WithViewModes(modes []ViewMode) error {
	if s.built {
		return ErrSessionBuilt
	}
	s.scheme.ViewModes = append([]ViewMode{}, modes...)
	return nil
}

// AddCategory closes every open scope and opens a new category.
func (s *Session) AddCategory(name string) error {
	if s.built {
		return ErrSessionBuilt
	}
	s.closeAll()
	s.category = &Category{
		Name:       name,
		Assets:     []Asset{},
		Constructs: []*Construct{},
		Containers: []Container{},
	}
	s.scheme.Categories = append(s.scheme.Categories, s.category)
	return nil
}

// AddAsset appends an asset to the open category.
func (s *Session) AddAsset(asset Asset) error {
	if err := s.require("add an asset", ScopeCategory); err != nil {
		return err
	}
	s.category.Assets = append(s.category.Assets, asset)
	return nil
}

// AddContainer appends a container to the open category.
func (s *Session) AddContainer(container Container) error {
	if err := s.require("add a container", ScopeCategory); err != nil {
		return err
	}
	s.category.Containers = append(s.category.Containers, container)
	return nil
}

// AddConstruct appends a construct to the open category and opens it.
// A script carried by the input is kept as given but not opened; AddScript
// replaces it with one that frame and lane groups can be added to.
func (s *Session) AddConstruct(construct Construct) error {
	if err := s.require("add a construct", ScopeCategory); err != nil {
		return err
	}
	c := construct
	s.construct = &c
	s.script, s.frameGroup, s.laneGroup = nil, nil, nil
	s.category.Constructs = append(s.category.Constructs, s.construct)
	return nil
}

// WithZones sets the dock zones of the open construct.
func (s *Session) WithZones(zones []DockZone) error {
	if err := s.require("set zones", ScopeConstruct); err != nil {
		return err
	}
	s.construct.Zones = append([]DockZone{}, zones...)
	return nil
}

// AddScript attaches a script to the open construct, replacing any previous one.
func (s *Session) AddScript(script Script) error {
	if err := s.require("add a script", ScopeConstruct); err != nil {
		return err
	}
	sc := script
	sc.FrameGroups = []*FrameGroup{}
	sc.LaneGroups = []*LaneGroup{}
	s.script = &sc
	s.frameGroup, s.laneGroup = nil, nil
	s.construct.Script = s.script
	return nil
}

// AddFrameGroup appends a frame group to the open script and opens it.
// The open lane group, if any, is closed.
func (s *Session) AddFrameGroup(group FrameGroup) error {
	if err := s.require("add a frame group", ScopeScript); err != nil {
		return err
	}
	g := group
	g.Frames = []Frame{}
	s.frameGroup = &g
	s.laneGroup = nil
	s.script.FrameGroups = append(s.script.FrameGroups, s.frameGroup)
	return nil
}

// AddFrame appends a frame to the open frame group.
func (s *Session) AddFrame(frame Frame) error {
	if err := s.require("add a frame", ScopeFrameGroup); err != nil {
		return err
	}
	s.frameGroup.Frames = append(s.frameGroup.Frames, frame)
	return nil
}

// AddLaneGroup appends a lane group to the open script and opens it.
// The open frame group, if any, is closed.
func (s *Session) AddLaneGroup(group LaneGroup) error {
	if err := s.require("add a lane group", ScopeScript); err != nil {
		return err
	}
	g := group
	g.Lanes = []Lane{}
	s.laneGroup = &g
	s.frameGroup = nil
	s.script.LaneGroups = append(s.script.LaneGroups, s.laneGroup)
	return nil
}

// AddLane appends a lane to the open lane group.
func (s *Session) AddLane(lane Lane) error {
	if err := s.require("add a lane", ScopeLaneGroup); err != nil {
		return err
	}
	s.laneGroup.Lanes = append(s.laneGroup.Lanes, lane)
	return nil
}

// Build closes every open scope and returns the document. Elements were
// attached as they were added, so nothing is discarded. The session rejects
// further operations.
func (s *Session) Build() *Scheme {
	s.closeAll()
	s.built = true
	return s.scheme
}

// Open reports whether the given scope is currently open.
func (s *Session) Open(scope Scope) bool {
	switch scope {
	case ScopeCategory:
		return s.category != nil
	case ScopeConstruct:
		return s.construct != nil
	case ScopeScript:
		return s.script != nil
	case ScopeFrameGroup:
		return s.frameGroup != nil
	case ScopeLaneGroup:
		return s.laneGroup != nil
	}
	return false
}

func (s *Session) require(op string, scope Scope) error {
	if s.built {
		return ErrSessionBuilt
	}
	if !s.Open(scope) {
		return &ConstructionSequenceError{Op: op, Missing: scope}
	}
	return nil
}

func (s *Session) closeAll() {
	s.category = nil
	s.construct = nil
	s.script = nil
	s.frameGroup = nil
	s.laneGroup = nil
}
