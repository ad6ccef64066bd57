package common

type Provider string

const (
	AWS Provider = "aws"
	GCP Provider = "gcp"
)
