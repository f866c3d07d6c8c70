package scheme

import "fmt"

// Validate checks the structural constraints a built document must satisfy:
// well-formed limits, closed allowed-entity tags, non-trivial conflict groups
// and unique category names. Null entries, which only a decoded document can
// hold, are reported rather than followed. It returns an *AggregateError
// listing every defect.
func Validate(s *Scheme) error {
	v := &validator{}
	if s.Name == "" {
		v.add("name", "must not be empty")
	}

	names := make(map[string]int)
	for i, cat := range s.Categories {
		path := fmt.Sprintf("categories[%d]", i)
		if cat == nil {
			v.add(path, "empty category")
			continue
		}
		if prev, dup := names[cat.Name]; dup {
			v.add(path+".name", fmt.Sprintf("duplicates categories[%d]", prev))
		} else {
			names[cat.Name] = i
		}
		for j, c := range cat.Containers {
			v.allowed(fmt.Sprintf("%s.containers[%d]", path, j), c.AllowedEntities)
		}
		for j, c := range cat.Constructs {
			cpath := fmt.Sprintf("%s.constructs[%d]", path, j)
			if c == nil {
				v.add(cpath, "empty construct")
				continue
			}
			v.rules(cpath, c.FileTransformRules)
			if c.Script != nil {
				v.script(cpath+".script", c.Script)
			}
		}
		for j, a := range cat.Assets {
			v.rules(fmt.Sprintf("%s.assets[%d]", path, j), a.FileTransformRules)
		}
	}

	if len(v.errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: v.errs}
}

type validator struct {
	errs []error
}

func (v *validator) add(path, reason string) {
	v.errs = append(v.errs, &ValidationError{Path: path, Reason: reason})
}

func (v *validator) limits(path string, l Limits) {
	if err := l.Validate(); err != nil {
		v.add(path, err.Error())
	}
}

func (v *validator) optLimits(path string, l *Limits) {
	if l != nil {
		v.limits(path, *l)
	}
}

func (v *validator) allowed(path string, a *AllowedEntityTypes) {
	if err := a.Validate(); err != nil {
		v.add(path+".allowedEntities", err.Error())
	}
}

func (v *validator) conflicts(path string, groups [][]EntityRef) {
	for i, g := range groups {
		if len(g) < 2 {
			v.add(fmt.Sprintf("%s.conflictingEntityGroups[%d]", path, i), "needs at least two entity types")
		}
	}
}

func (v *validator) rules(path string, rules []FileTransformRule) {
	for i, r := range rules {
		if r.SourceName == "" || r.TargetName == "" {
			v.add(fmt.Sprintf("%s.fileTransformRules[%d]", path, i), "sourceName and targetName are required")
		}
	}
}

func (v *validator) script(path string, sc *Script) {
	for i, g := range sc.FrameGroups {
		gpath := fmt.Sprintf("%s.frameGroups[%d]", path, i)
		if g == nil {
			v.add(gpath, "empty frame group")
			continue
		}
		v.limits(gpath+".frameGroupLimits", g.FrameGroupLimits)
		v.limits(gpath+".frameLimits", g.FrameLimits)
		v.allowed(gpath, g.AllowedEntities)
		v.conflicts(gpath, g.ConflictingEntityGroups)
		for j, f := range g.Frames {
			fpath := fmt.Sprintf("%s.frames[%d]", gpath, j)
			v.allowed(fpath, f.AllowedEntities)
			v.conflicts(fpath, f.ConflictingEntityGroups)
			v.optLimits(fpath+".entityLimits", f.EntityLimits)
		}
	}
	for i, g := range sc.LaneGroups {
		gpath := fmt.Sprintf("%s.laneGroups[%d]", path, i)
		if g == nil {
			v.add(gpath, "empty lane group")
			continue
		}
		v.limits(gpath+".laneGroupLimits", g.LaneGroupLimits)
		v.limits(gpath+".laneLimits", g.LaneLimits)
		v.optLimits(gpath+".entityLimits", g.EntityLimits)
		v.allowed(gpath, g.AllowedEntities)
		v.conflicts(gpath, g.ConflictingEntityGroups)
		for j, l := range g.Lanes {
			lpath := fmt.Sprintf("%s.lanes[%d]", gpath, j)
			v.allowed(lpath, l.AllowedEntities)
			v.conflicts(lpath, l.ConflictingEntityGroups)
			v.optLimits(lpath+".entityLimits", l.EntityLimits)
		}
	}
}
