package mdpress

import "strings"

// buildResult describes a finished conversion: the logical file name and
// the URL where the generated PDF can be fetched.
func buildResult(fileName, baseURL string) *Result {
	return &Result{
		FileName:    fileName,
		DownloadURL: downloadURL(fileName, baseURL),
	}
}

// downloadURL joins the public base URL with the PDF artifact name.
func downloadURL(fileName, baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	return base + "/" + fileName + pdfExt
}
