// Package ioc carries a built-in corpus of MITRE ATT&CK tactics (TA0001
// through TA0011), each with the literal indicator strings its techniques
// commonly leave in forensic evidence.
//
// The query pipeline uses the corpus two ways: Corpus.Match finds the
// tactics most similar to a query by embedding similarity, and the matched
// tactics' Strings pre-load the indicator set before any model-generated
// indicator rounds.
package ioc
