package config

import "regexp"

// A CodeIdentifier identifies a code element that can be marked as an entry
// point. A code identifier can be identified from its namespace, its
// containing type, or its method name, or any combination of those.
type CodeIdentifier struct {
	Namespace string
	Type      string
	Method    string
	// This will not be part of the yaml config
	computedRegexs *CodeIdentifierRegex
}

// CodeIdentifierRegex holds the compiled form of a CodeIdentifier's fields.
type CodeIdentifierRegex struct {
	namespaceRegex *regexp.Regexp
	typeRegex      *regexp.Regexp
	methodRegex    *regexp.Regexp
}

// CompileRegexes compiles the strings in the code identifier into regexes. It compiles all identifiers into regexes
// or none.
func CompileRegexes(cid CodeIdentifier) CodeIdentifier {
	namespaceRegex, err := regexp.Compile(cid.Namespace)
	if err != nil {
		return cid
	}
	typeRegex, err := regexp.Compile(cid.Type)
	if err != nil {
		return cid
	}
	methodRegex, err := regexp.Compile(cid.Method)
	if err != nil {
		return cid
	}
	cid.computedRegexs = &CodeIdentifierRegex{
		namespaceRegex,
		typeRegex,
		methodRegex,
	}
	return cid
}

// equalOnNonEmptyFields returns true if each of the receiver's fields are either equal to the corresponding
// argument's field, or the argument's field is empty
func (cid *CodeIdentifier) equalOnNonEmptyFields(cidRef CodeIdentifier) bool {
	if cidRef.computedRegexs != nil {
		return ((cidRef.computedRegexs.namespaceRegex.MatchString(cid.Namespace)) || (cidRef.Namespace == "")) &&
			((cidRef.computedRegexs.typeRegex.MatchString(cid.Type)) || (cidRef.Type == "")) &&
			((cidRef.computedRegexs.methodRegex.MatchString(cid.Method)) || (cidRef.Method == ""))
	}
	return ((cid.Namespace == cidRef.Namespace) || (cidRef.Namespace == "")) &&
		((cid.Type == cidRef.Type) || (cidRef.Type == "")) &&
		((cid.Method == cidRef.Method) || (cidRef.Method == ""))
}
