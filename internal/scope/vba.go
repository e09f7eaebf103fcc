package scope

// VBALibrary is the built-in Language library: common functions,
// statements, objects, constants, intrinsic types and classes.
func VBALibrary() Library {
	members := make([]LibraryMember, 0, len(vbaFunctions)+len(vbaSubroutines)+len(vbaObjects)+len(vbaConstants)+len(vbaTypes)+len(vbaClasses))
	for _, n := range vbaFunctions {
		members = append(members, LibraryMember{Name: n, Kind: KindFunction})
	}
	for _, n := range vbaSubroutines {
		members = append(members, LibraryMember{Name: n, Kind: KindSubroutine})
	}
	for _, n := range vbaObjects {
		members = append(members, LibraryMember{Name: n, Kind: KindVariable, Assign: AssignGet})
	}
	for _, n := range vbaConstants {
		members = append(members, LibraryMember{Name: n, Kind: KindVariable, Assign: AssignGet})
	}
	for _, n := range vbaTypes {
		members = append(members, LibraryMember{Name: n, Kind: KindType})
	}
	for _, n := range vbaClasses {
		members = append(members, LibraryMember{Name: n, Kind: KindClass})
	}
	return Library{Kind: KindLanguage, Name: "VBA", Members: members}
}

var vbaFunctions = []string{
	"Abs", "Array", "Asc", "AscW", "Atn", "CBool", "CByte", "CCur", "CDate", "CDbl", "CDec",
	"CInt", "CLng", "CLngLng", "CLngPtr", "CSng", "CStr", "CVar", "CVErr", "Choose", "Chr",
	"ChrW", "Command", "Cos", "CreateObject", "CurDir", "Date", "DateAdd", "DateDiff",
	"DatePart", "DateSerial", "DateValue", "Day", "DoEvents", "Environ", "EOF", "Error",
	"Exp", "FileAttr", "FileDateTime", "FileLen", "Filter", "Fix", "Format",
	"FormatCurrency", "FormatDateTime", "FormatNumber", "FormatPercent", "FreeFile",
	"GetAttr", "GetObject", "GetSetting", "Hex", "Hour", "IIf", "IMEStatus", "Input",
	"InputBox", "InStr", "InStrRev", "Int", "IsArray", "IsDate", "IsEmpty", "IsError",
	"IsMissing", "IsNull", "IsNumeric", "IsObject", "Join", "LBound", "LCase", "Left",
	"Len", "LenB", "Loc", "LOF", "Log", "LTrim", "Mid", "Minute", "Month", "MonthName",
	"MsgBox", "Now", "Oct", "Partition", "QBColor", "Replace", "RGB", "Right", "Rnd",
	"Round", "RTrim", "Second", "Seek", "Sgn", "Shell", "Sin", "Space", "Split", "Sqr",
	"Str", "StrComp", "StrConv", "String", "StrReverse", "Switch", "Tab", "Tan", "Time",
	"Timer", "TimeSerial", "TimeValue", "Trim", "TypeName", "UBound", "UCase", "Val",
	"VarType", "Weekday", "WeekdayName", "Year",
}

var vbaSubroutines = []string{
	"AppActivate", "Beep", "ChDir", "ChDrive", "Close", "DeleteSetting", "FileCopy", "Kill",
	"Load", "MkDir", "Name", "Randomize", "Reset", "RmDir", "SaveSetting", "SendKeys",
	"SetAttr", "Unload",
}

var vbaObjects = []string{
	"Debug", "Err", "Forms",
}

var vbaConstants = []string{
	"vbCr", "vbCrLf", "vbLf", "vbNewLine", "vbNullChar", "vbNullString", "vbTab", "vbBack",
	"vbFormFeed", "vbVerticalTab", "vbObjectError", "vbOKOnly", "vbOKCancel",
	"vbAbortRetryIgnore", "vbYesNoCancel", "vbYesNo", "vbRetryCancel", "vbCritical",
	"vbQuestion", "vbExclamation", "vbInformation", "vbDefaultButton1", "vbDefaultButton2",
	"vbDefaultButton3", "vbApplicationModal", "vbSystemModal", "vbOK", "vbCancel",
	"vbAbort", "vbRetry", "vbIgnore", "vbYes", "vbNo", "vbBinaryCompare", "vbTextCompare",
	"vbDatabaseCompare", "vbEmpty", "vbNull", "vbInteger", "vbLong", "vbSingle", "vbDouble",
	"vbCurrency", "vbDate", "vbString", "vbObject", "vbError", "vbBoolean", "vbVariant",
	"vbDecimal", "vbByte", "vbLongLong", "vbArray", "vbTrue", "vbFalse", "vbUseDefault",
	"vbBlack", "vbRed", "vbGreen", "vbYellow", "vbBlue", "vbMagenta", "vbCyan", "vbWhite",
	"vbUpperCase", "vbLowerCase", "vbProperCase", "vbUnicode", "vbFromUnicode", "vbSunday",
	"vbMonday", "vbUseSystemDayOfWeek", "vbGeneralDate", "vbLongDate", "vbShortDate",
	"vbLongTime", "vbShortTime", "vbNormal", "vbHidden", "vbSystem", "vbDirectory",
	"vbArchive", "vbReadOnly",
}

// встроенные типы для As-клауз
var vbaTypes = []string{
	"Boolean", "Byte", "Currency", "Date", "Decimal", "Double", "Integer", "Long",
	"LongLong", "LongPtr", "Object", "Single", "String", "Variant",
}

var vbaClasses = []string{
	"Collection", "ErrObject",
}
