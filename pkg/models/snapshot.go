package models

// Snapshot is one complete, immutable object graph produced by a single build-tool reply.
type Snapshot struct {
	SourceDir      string    `json:"sourceDir" msgpack:"sourceDir"`
	BuildDir       string    `json:"buildDir" msgpack:"buildDir"`
	Generator      string    `json:"generator,omitempty" msgpack:"generator,omitempty"`
	Configurations []string  `json:"configurations,omitempty" msgpack:"configurations,omitempty"`
	Digest         string    `json:"digest" msgpack:"digest"`
	Targets        []*Target `json:"targets" msgpack:"targets"`
}

// TargetByID returns the target with the given id, or nil.
func (s *Snapshot) TargetByID(id string) *Target {
	if s == nil {
		return nil
	}
	for _, t := range s.Targets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TargetNames maps target ids to display names
func (s *Snapshot) TargetNames() map[string]string {
	names := make(map[string]string, len(s.Targets))
	for _, t := range s.Targets {
		names[t.ID] = t.Name
	}
	return names
}
