package datamapper

import (
	eng "github.com/igorpocta/data-mapper-sub001/internal/engine"
)

// DetectJSONDuplicateKeysBytes reports duplicate object keys in a JSON
// document. Ignore yields nothing; Error stops at the first duplicate.
// maxIssues < 0 means unlimited; 0 disables detection.
func DetectJSONDuplicateKeysBytes(data []byte, sev Severity, maxIssues int) (Issues, error) {
	si, err := eng.DetectJSONDuplicateKeysBytes(data, toEngineDup(sev), maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineIssues(si []eng.SimpleIssue) Issues {
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, newIssue(s.Path, CodeDuplicateKey, map[string]string{"key": s.Key}, nil))
	}
	return iss
}
