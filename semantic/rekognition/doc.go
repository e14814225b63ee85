// Package rekognition implements semantic.Provider on top of AWS Rekognition
// DetectLabels. It is an optional adapter: the clustering core only sees the
// semantic.Provider interface and degrades to a neutral signal without it.
package rekognition
