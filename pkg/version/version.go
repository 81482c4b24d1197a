package version

var (
	// These values are injected during build - DO NOT MODIFY
	Version   = "VERSION_PLACEHOLDER"
	CommitSHA = "COMMIT_PLACEHOLDER"
)

func GetVersionInfo() string {
	return "PageMark " + Version
}

func GetDetailedVersionInfo() string {
	return "PageMark\n" +
		"Version:  " + Version + "\n" +
		"Commit:   " + CommitSHA + "\n"
}
