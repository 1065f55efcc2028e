package metric

const (
	TagEnv                       = "env"
	TagService                   = "service"
	TagPath                      = "path"
	TagMethod                    = "method"
	TagHttpStatusCode            = "http_status_code"
	TagExternalService           = "external_service"
	TagExternalServicePath       = "external_service_path"
	TagExternalServiceMethod     = "external_service_method"
	TagExternalServiceStatusCode = "external_service_status_code"
)

type Tag struct {
	Name  string
	Value string
}

func NewTag(name, value string) Tag {
	return Tag{Name: name, Value: value}
}

// BuildTag renders tags as name:value pairs.
func BuildTag(tags ...Tag) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, TagAsString(tag.Name, tag.Value))
	}
	return out
}

func TagAsString(name, value string) string {
	return name + ":" + value
}
