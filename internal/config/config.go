package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName         = "Go Contacts"
	AppCommand      = "go-contacts"
	KeyringService  = "com.github.tartampluch.go-contacts"
	DefaultBookName = "addressbook"
	DefaultDataDir  = "."
	ActivityLogFile = "logs.txt"
	EnvPrefix       = "CONTACTS"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for snapshots and the activity log.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// Contact Fields
// -----------------------------------------------------------------------------

// Field names accepted by search and edit.
const (
	FieldName     = "name"
	FieldPhones   = "phones"
	FieldBirthday = "birthday"
	FieldEmail    = "email"
	FieldStatus   = "status"
	FieldNote     = "note"
)

// Fields lists every contact attribute in display order.
var Fields = []string{FieldName, FieldPhones, FieldBirthday, FieldEmail, FieldStatus, FieldNote}

// Statuses is the vocabulary accepted by the status validator.
var Statuses = []string{"family", "friend", "work", "other"}

// -----------------------------------------------------------------------------
// Validation Limits
// -----------------------------------------------------------------------------

const (
	PhoneMinDigits = 10
	PhoneMaxDigits = 15
	PhonePlus      = "+"

	// PhoneSeparators are stripped before the digit check.
	PhoneSeparators = " -.()"
)

// -----------------------------------------------------------------------------
// Rendering
// -----------------------------------------------------------------------------

const (
	SeparatorWidth = 50
	SeparatorChar  = "_"
	PhoneJoiner    = ", "
	NameJoiner     = " "
	DigestLine     = "%s: %s"

	LabelName     = "Name"
	LabelPhones   = "Phones"
	LabelBirthday = "Birthday"
	LabelEmail    = "Email"
	LabelStatus   = "Status"
	LabelNote     = "Note"
	FormatLabel   = "%s: %s"
)

// -----------------------------------------------------------------------------
// Data Formats & File Extensions
// -----------------------------------------------------------------------------

const (
	// DateFormatBirthday is the user facing DD/MM/YYYY layout.
	DateFormatBirthday = "02/01/2006"
	// DateFormatFullDash is used in snapshots and vCard BDAY fields.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"
	DateFormatActivity  = "15:04:05"
	FormatActivityLine  = "[%s] %s\n"

	// DateFormatBirthdayNoYear is the DD/MM layout of a birthday without a year.
	DateFormatBirthdayNoYear = "02/01"

	// YearUnknown is the year stored for birthdays recorded without one.
	// Year 0 is a leap year, so --02-29 survives.
	YearUnknown = 0

	ExtSnapshot = ".json"
	ExtVCF      = ".vcf"
	ExtICS      = ".ics"
	TempPattern = ".tmp-*"

	SchemaSnapshot = "go-contacts/v1"
	SchemaSealed   = "go-contacts/sealed-v1"
)

// -----------------------------------------------------------------------------
// Sealed Snapshots
// -----------------------------------------------------------------------------

const (
	SealKeyLength        = 32
	SealNonceLength      = 12
	SealSaltLength       = 32
	SealIterations       = 100000
	SealPassphraseLength = 32
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Contacts//Engine//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gocontacts"

	// iCal Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	UIDSalt         = "go-contacts-v1-" // Salt for deterministic UID generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Activity Messages
// -----------------------------------------------------------------------------

const (
	ActContactAdded   = "Contact %s has been added."
	ActContactEdited  = "Contact %s has been edited!"
	ActContactRemoved = "Contact %s has been removed!"
	ActBookCreated    = "Address book has been created!"
	ActBookLoaded     = "Address book has been loaded!"
	ActBookSaved      = "Address book has been saved!"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidFormat   = "invalid format"
	ErrInvalidValue    = "invalid value"
	ErrUnknownField    = "unknown field"
	ErrContactNotFound = "contact not found"
	ErrEmptyName       = "name is empty"
	ErrPhoneDigits     = "phone must contain 10 to 15 digits"
	ErrEmailShape      = "email must look like name@domain.tld"
	ErrFutureBirthday  = "birthday is in the future"

	ErrSnapshotRead    = "failed to read snapshot"
	ErrSnapshotWrite   = "failed to write snapshot"
	ErrSnapshotDecode  = "failed to decode snapshot"
	ErrSnapshotEncode  = "failed to encode snapshot"
	ErrSchema          = "unsupported snapshot schema"
	ErrBookName        = "book name must not contain a path separator"
	ErrSealed          = "snapshot is sealed but no secret source is configured"
	ErrSeal            = "failed to seal snapshot"
	ErrUnseal          = "invalid passphrase or corrupted snapshot"
	ErrSecret          = "failed to obtain snapshot passphrase"
	ErrActivityLog     = "failed to append activity log"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrVCardEncode     = "failed to encode vCard"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrSettings        = "failed to load settings"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrAppFailed       = "application failed unexpectedly"
	ErrMissingArgument = "missing argument"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped"
	MsgNoMatch        = "No contact matched the search"
	MsgEditRejected   = "Edit rejected"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgSkippedPhone   = "Skipping invalid phone number"
	MsgImportDone     = "vCard import finished"
	MsgExportDone     = "Export finished"
	MsgCalendarDone   = "Calendar generation successful"
	MsgSnapshotLoaded = "Snapshot loaded"
	MsgSnapshotSaved  = "Snapshot saved"
	MsgDigestDone     = "Birthday digest computed"
	MsgSecretCreated  = "Generated new snapshot passphrase"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgVersionOutput  = "%s version %s (commit %s, built %s, %s/%s)\n"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyMonday    = "weekday_monday"
	TKeyTuesday   = "weekday_tuesday"
	TKeyWednesday = "weekday_wednesday"
	TKeyThursday  = "weekday_thursday"
	TKeyFriday    = "weekday_friday"
	TKeySaturday  = "weekday_saturday"
	TKeySunday    = "weekday_sunday"

	TKeyContactAdded   = "msg_contact_added"   // Requires Name
	TKeyContactEdited  = "msg_contact_edited"  // Requires Name
	TKeyContactRemoved = "msg_contact_removed" // Requires Name
	TKeyNoMatch        = "msg_no_match"
	TKeyNoBirthdays    = "msg_no_birthdays"
	TKeyBookEmpty      = "msg_book_empty"
	TKeyImported       = "msg_imported" // Requires Count
	TKeyExported       = "msg_exported" // Requires Count, File
	TKeyDigestTitle    = "title_digest"

	TKeyErrNotFound      = "err_contact_not_found" // Requires Name
	TKeyErrUnknownField  = "err_unknown_field"     // Requires Field
	TKeyErrInvalidFormat = "err_invalid_format"
	TKeyErrInvalidValue  = "err_invalid_value"
)

// SupportedLanguages defines the list of available languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

const DefaultLanguage = "en"

// -----------------------------------------------------------------------------
// CLI Commands & Flags
// -----------------------------------------------------------------------------

const (
	CmdAdd       = "add"
	CmdEdit      = "edit"
	CmdRemove    = "remove"
	CmdSearch    = "search"
	CmdList      = "list"
	CmdBirthdays = "birthdays"
	CmdImportVCF = "import-vcf"
	CmdExportVCF = "export-vcf"
	CmdExportICS = "export-ics"
	CmdVersion   = "version"

	FlagBook     = "book"
	FlagDir      = "dir"
	FlagLang     = "lang"
	FlagDebug    = "debug"
	FlagSeal     = "seal"
	FlagName     = "name"
	FlagPhone    = "phone"
	FlagBirthday = "birthday"
	FlagEmail    = "email"
	FlagStatus   = "status"
	FlagNote     = "note"
	FlagIn       = "in"
	FlagReminder = "reminder"
	FlagOut      = "out"
	FlagUpcoming = "upcoming"
)

const (
	AppUsage = "Keep an address book and never miss a birthday"

	DescAdd       = "Add a contact"
	DescEdit      = "Set FIELD to VALUE on every contact named NAME (empty VALUE clears it)"
	DescRemove    = "Remove every contact named NAME"
	DescSearch    = "List contacts whose FIELD matches PATTERN"
	DescList      = "Print the whole address book"
	DescBirthdays = "Print the birthdays of the current week"
	DescImportVCF = "Append the contacts of a vCard file"
	DescExportVCF = "Write the address book as vCard 4.0"
	DescExportICS = "Write the birthdays as an iCalendar feed"
	DescVersion   = "Print build version & exit"

	ArgsEdit   = "NAME FIELD [VALUE]"
	ArgsRemove = "NAME"
	ArgsSearch = "FIELD PATTERN"

	FlagDescBook     = "Address book name"
	FlagDescDir      = "Data directory"
	FlagDescLang     = "Interface language (en, fr)"
	FlagDescDebug    = "Enable debug logging"
	FlagDescSeal     = "Encrypt the snapshot with a passphrase kept in the OS keyring"
	FlagDescName     = "Full name"
	FlagDescPhone    = "Phone number (repeatable)"
	FlagDescBirthday = "Birthday as DD/MM/YYYY"
	FlagDescEmail    = "Email address"
	FlagDescStatus   = "One of family, friend, work, other"
	FlagDescNote     = "Free text note"
	FlagDescIn       = "vCard file to read"
	FlagDescOut      = "Output file (defaults to the book name)"
	FlagDescReminder = "Alarm trigger as ISO8601 duration, e.g. -P1D"
	FlagDescUpcoming = "List every birthday, soonest first"

	// FormatUpcoming renders one line of the upcoming list: date, name, age.
	FormatUpcoming = "%s  %s (%d)"

	// FormatSummaryAge is the default event title: name and age reached.
	FormatSummaryAge = "%s (%d)"
	// FormatUpcomingNoAge is used when the birth year is unknown.
	FormatUpcomingNoAge = "%s  %s"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyBook      = "book"
	LogKeyName      = "name"
	LogKeyField     = "field"
	LogKeyPattern   = "pattern"
	LogKeyCategory  = "category"
	LogKeyCount     = "count"
	LogKeyMatches   = "matches"
	LogKeyValue     = "value"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeySchema    = "schema"
	LogKeySealed    = "sealed"
	LogKeyStats     = "stats"
	LogKeyTotal     = "total_cards"
	LogKeyImported  = "imported"
	LogKeySkipped   = "skipped"
	LogKeyEvents    = "events"
	LogKeyVersion   = "version"
	LogKeyGoVer     = "go_version"
	LogKeyOS        = "os"
	LogKeyArch      = "arch"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain     = "main"
	CompBook     = "book"
	CompEngine   = "engine"
	CompStorage  = "storage"
	CompActivity = "activity"
	CompI18n     = "i18n"
)
