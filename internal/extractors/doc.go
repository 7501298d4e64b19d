// Package extractors converts stored document bytes into plain text.
// Each extractor handles one MIME type; extractors are grouped into
// versioned generations so that cached text can always be traced back
// to the code that produced it. A released version is frozen: any
// behavioural change goes into a new version name instead.
package extractors
