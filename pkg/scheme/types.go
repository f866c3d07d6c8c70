package scheme

// ViewMode names an alternate presentation of the canvas (e.g. "SIMPLE", "DEV").
type ViewMode string

// ConstructShape is the palette shape of a construct.
type ConstructShape string

const (
	ShapeRectangle ConstructShape = "rectangle"
	ShapeSquare    ConstructShape = "square"
)

// DockZone is a side of a construct where assets can be docked.
type DockZone string

const (
	ZoneTop    DockZone = "top"
	ZoneBottom DockZone = "bottom"
	ZoneLeft   DockZone = "left"
	ZoneRight  DockZone = "right"
)

// Scheme is the complete declarative document describing a palette and
// canvas layout for one modeling tool configuration.
type Scheme struct {
	Name             string `json:"name" yaml:"name"`
	FileExtension    string `json:"fileExtension" yaml:"fileExtension"`
	DefaultConstruct string `json:"defaultConstruct,omitempty" yaml:"defaultConstruct,omitempty"`

	Categories []*Category `json:"categories" yaml:"categories"`

	// Optional: nil means "not configured".
	SerializationRules []SerializationRule `json:"serializationRules,omitempty" yaml:"serializationRules,omitempty"`
	ViewModes          []ViewMode          `json:"viewModes,omitempty" yaml:"viewModes,omitempty"`
}

// Category groups palette entries under a name unique within the Scheme.
type Category struct {
	Name       string       `json:"name" yaml:"name"`
	Assets     []Asset      `json:"assets" yaml:"assets"`
	Constructs []*Construct `json:"constructs" yaml:"constructs"`
	Containers []Container  `json:"containers" yaml:"containers"`
}

// Asset is a leaf palette entry.
type Asset struct {
	Type        string `json:"type" yaml:"type"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	DataSource  string `json:"dataSource,omitempty" yaml:"dataSource,omitempty"`

	FileConfig         *FileConfig         `json:"fileConfig,omitempty" yaml:"fileConfig,omitempty"`
	FileTransformRules []FileTransformRule `json:"fileTransformRules,omitempty" yaml:"fileTransformRules,omitempty"`
}

// Container is a palette entry that groups other entities on the canvas.
type Container struct {
	Type            string              `json:"type" yaml:"type"`
	Label           string              `json:"label" yaml:"label"`
	Description     string              `json:"description,omitempty" yaml:"description,omitempty"`
	Style           *Style              `json:"style,omitempty" yaml:"style,omitempty"`
	AllowedEntities *AllowedEntityTypes `json:"allowedEntities,omitempty" yaml:"allowedEntities,omitempty"`
}

// Construct is a palette entry that may own at most one Script.
type Construct struct {
	Type        string         `json:"type" yaml:"type"`
	Label       string         `json:"label" yaml:"label"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Shape       ConstructShape `json:"shape,omitempty" yaml:"shape,omitempty"`
	Style       *Style         `json:"style,omitempty" yaml:"style,omitempty"`

	Script *Script    `json:"script,omitempty" yaml:"script,omitempty"`
	Zones  []DockZone `json:"zones,omitempty" yaml:"zones,omitempty"`

	FileConfig         *FileConfig            `json:"fileConfig,omitempty" yaml:"fileConfig,omitempty"`
	FileTransformRules []FileTransformRule    `json:"fileTransformRules,omitempty" yaml:"fileTransformRules,omitempty"`
	ModeOverrides      map[ViewMode]Overrides `json:"modeOverrides,omitempty" yaml:"modeOverrides,omitempty"`
	TransitionDefaults *TransitionDefaults    `json:"transitionDefaults,omitempty" yaml:"transitionDefaults,omitempty"`
}

// Script is the canvas layout of a construct: a frame axis and a lane axis.
type Script struct {
	Type        string `json:"type" yaml:"type"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Style       *Style `json:"style,omitempty" yaml:"style,omitempty"`
	DetailMode  string `json:"detailMode,omitempty" yaml:"detailMode,omitempty"`

	FrameGroups []*FrameGroup `json:"frameGroups" yaml:"frameGroups"`
	LaneGroups  []*LaneGroup  `json:"laneGroups" yaml:"laneGroups"`
}

// Label is the display header of a grid element.
type Label struct {
	Text string `json:"text" yaml:"text"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// FrameGroup is a column group on the frame axis of a Script.
type FrameGroup struct {
	Label            *Label         `json:"label,omitempty" yaml:"label,omitempty"`
	Style            *Style         `json:"style,omitempty" yaml:"style,omitempty"`
	AllowedActions   AllowedActions `json:"allowedActions" yaml:"allowedActions"`
	FrameGroupLimits Limits         `json:"frameGroupLimits" yaml:"frameGroupLimits"`
	FrameLimits      Limits         `json:"frameLimits" yaml:"frameLimits"`
	FrameWidth       int            `json:"frameWidth,omitempty" yaml:"frameWidth,omitempty"`

	AllowedEntities         *AllowedEntityTypes `json:"allowedEntities,omitempty" yaml:"allowedEntities,omitempty"`
	ConflictingEntityGroups [][]EntityRef       `json:"conflictingEntityGroups,omitempty" yaml:"conflictingEntityGroups,omitempty"`

	Frames []Frame `json:"frames" yaml:"frames"`
}

// LaneGroup is a row group on the lane axis of a Script.
type LaneGroup struct {
	Label           *Label         `json:"label,omitempty" yaml:"label,omitempty"`
	Style           *Style         `json:"style,omitempty" yaml:"style,omitempty"`
	AllowedActions  AllowedActions `json:"allowedActions" yaml:"allowedActions"`
	LaneGroupLimits Limits         `json:"laneGroupLimits" yaml:"laneGroupLimits"`
	LaneLimits      Limits         `json:"laneLimits" yaml:"laneLimits"`
	LaneHeight      int            `json:"laneHeight,omitempty" yaml:"laneHeight,omitempty"`
	EntityLimits    *Limits        `json:"entityLimits,omitempty" yaml:"entityLimits,omitempty"`

	AllowedEntities         *AllowedEntityTypes `json:"allowedEntities,omitempty" yaml:"allowedEntities,omitempty"`
	ConflictingEntityGroups [][]EntityRef       `json:"conflictingEntityGroups,omitempty" yaml:"conflictingEntityGroups,omitempty"`

	Lanes []Lane `json:"lanes" yaml:"lanes"`
}

// Frame is a leaf cell on the frame axis.
type Frame struct {
	Label                   *Label                 `json:"label,omitempty" yaml:"label,omitempty"`
	Style                   *Style                 `json:"style,omitempty" yaml:"style,omitempty"`
	AllowedEntities         *AllowedEntityTypes    `json:"allowedEntities,omitempty" yaml:"allowedEntities,omitempty"`
	ConflictingEntityGroups [][]EntityRef          `json:"conflictingEntityGroups,omitempty" yaml:"conflictingEntityGroups,omitempty"`
	EntityLimits            *Limits                `json:"entityLimits,omitempty" yaml:"entityLimits,omitempty"`
	ModeOverrides           map[ViewMode]Overrides `json:"modeOverrides,omitempty" yaml:"modeOverrides,omitempty"`
}

// Lane is a leaf cell on the lane axis.
type Lane struct {
	Label                   *Label                 `json:"label,omitempty" yaml:"label,omitempty"`
	Style                   *Style                 `json:"style,omitempty" yaml:"style,omitempty"`
	AllowedEntities         *AllowedEntityTypes    `json:"allowedEntities,omitempty" yaml:"allowedEntities,omitempty"`
	ConflictingEntityGroups [][]EntityRef          `json:"conflictingEntityGroups,omitempty" yaml:"conflictingEntityGroups,omitempty"`
	EntityLimits            *Limits                `json:"entityLimits,omitempty" yaml:"entityLimits,omitempty"`
	ModeOverrides           map[ViewMode]Overrides `json:"modeOverrides,omitempty" yaml:"modeOverrides,omitempty"`
}

// Style is the visual configuration shared by styled elements.
type Style struct {
	BackgroundColor string `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty" yaml:"textColor,omitempty"`
	BorderColor     string `json:"borderColor,omitempty" yaml:"borderColor,omitempty"`
	BorderStyle     string `json:"borderStyle,omitempty" yaml:"borderStyle,omitempty"`
	BorderWidth     int    `json:"borderWidth,omitempty" yaml:"borderWidth,omitempty"`
}

// Overrides replaces sizing and styling of an element in a given ViewMode.
type Overrides struct {
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
	Hidden bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Style  *Style `json:"style,omitempty" yaml:"style,omitempty"`
}

// TransitionDefaults are applied to transitions drawn from a construct.
type TransitionDefaults struct {
	Inbound  []string `json:"inbound,omitempty" yaml:"inbound,omitempty"`
	Outbound []string `json:"outbound,omitempty" yaml:"outbound,omitempty"`
}

// FileConfig describes how an entity maps to files on disk.
type FileConfig struct {
	FileName  string `json:"fileName" yaml:"fileName"`
	FileType  string `json:"fileType" yaml:"fileType"`
	Directory bool   `json:"directory,omitempty" yaml:"directory,omitempty"`
	Template  string `json:"template,omitempty" yaml:"template,omitempty"`
}
