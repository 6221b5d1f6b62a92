package pubstatic

import (
	"net/url"

	"github.com/araddon/dateparse"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// LintFrontmatter reports missing or malformed frontmatter fields. The
// build only logs these; empty values still flow into the rendered pages.
func LintFrontmatter(fm Frontmatter) error {
	return validation.ValidateStruct(&fm,
		validation.Field(&fm.Title, validation.Required),
		validation.Field(&fm.Date, validation.Required, validation.By(isDate)),
		validation.Field(&fm.DateForSEO, validation.By(isDate)),
		validation.Field(&fm.Links),
	)
}

// Validate checks that the external links are absolute URLs.
func (l Links) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Colab, validation.By(isAbsoluteURL)),
		validation.Field(&l.Github, validation.By(isAbsoluteURL)),
	)
}

func isDate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := dateparse.ParseAny(s); err != nil {
		return validation.NewError("validation_is_date", "must be a date")
	}
	return nil
}

func isAbsoluteURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !ValidURL(s) {
		return validation.NewError("validation_is_url", "must be an absolute URL")
	}
	return nil
}

// ValidURL reports whether s parses as an absolute URL with a scheme and host.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
