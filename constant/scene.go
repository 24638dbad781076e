package constant

// Static asset prefixes used by scene clip references.
const (
	ClipsPrefix  = "/clips/"
	VoicesPrefix = "/voices/"
)

// SceneExtension is the file extension of scene manifests stored under the scenes directory.
const SceneExtension = ".yaml"
