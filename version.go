package narrative

// Version is the release of this module. Builds override it with
// -ldflags "-X github.com/aretw0/narrative.Version=...".
var Version = "0.1.0-dev"
