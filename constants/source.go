package constants

// EntrySource records how a persisted tip entry was produced.
type EntrySource string

// Stable values (store these exact strings in DB).
const (
	SourceManual     EntrySource = "MANUAL"     // typed into the form directly
	SourceChat       EntrySource = "CHAT"       // conversational parse
	SourceScreenshot EntrySource = "SCREENSHOT" // earnings screenshot extraction
	SourceReceipt    EntrySource = "RECEIPT"    // paper receipt extraction
)

// EntrySources holds the allowed values for the source field on tip entries.
var EntrySources = []string{
	string(SourceManual),
	string(SourceChat),
	string(SourceScreenshot),
	string(SourceReceipt),
}

func ValidEntrySource(s string) bool {
	for _, v := range EntrySources {
		if s == v {
			return true
		}
	}
	return false
}
