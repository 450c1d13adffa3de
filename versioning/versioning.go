package versioning

// Set at build time through -ldflags "-X github.com/Ethernal-Tech/bridge-transparency/versioning.Commit=..."
var (
	Version   = "dev"
	Commit    string
	Branch    string
	BuildTime string
)
