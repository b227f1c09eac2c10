package build

// Tag is set at build time via -ldflags "-X .../pkg/build.Tag=<tag>".
var Tag = "dev"
