package config

type Config struct {
	Debug    bool     `mapstructure:"debug"`
	Runtime  string   `mapstructure:"runtime" validate:"required,oneof=server browser"`
	Logging  Logging  `mapstructure:"logging"`
	Upload   Upload   `mapstructure:"upload"`
	Server   Server   `mapstructure:"server"`
	Media    Media    `mapstructure:"media"`
	Manifest Manifest `mapstructure:"manifest"`
}

type Logging struct {
	Level     string `mapstructure:"level" validate:"required,oneof=trace debug info warn error"`
	Format    string `mapstructure:"format" validate:"required,oneof=json console"`
	Timestamp bool   `mapstructure:"timestamp"`
}

type Upload struct {
	ChunkSize           uint   `mapstructure:"chunk_size" validate:"required,min=1"`
	SmallMediaThreshold uint   `mapstructure:"small_media_threshold"`
	DeprecationWarnings bool   `mapstructure:"deprecation_warnings"`
	Target              string `mapstructure:"target" validate:"required,oneof=tweet dm"`
}

type Server struct {
	Address string       `mapstructure:"address" validate:"required,hostname|ip"`
	Port    int          `mapstructure:"port" validate:"required,min=1,max=65535"`
	Limits  ServerLimits `mapstructure:"limits"`
}

type ServerLimits struct {
	MaxFileSize     uint `mapstructure:"max_file_size" validate:"required"`
	MaxMultipartMem uint `mapstructure:"max_multipart_mem" validate:"required"`
}

type Media struct {
	Strategy   string                   `mapstructure:"strategy" validate:"required,oneof=noop filesystem s3"`
	Filesystem *FilesystemMediaStrategy `mapstructure:"filesystem" validate:"required_if=Strategy filesystem"`
	S3         *S3MediaStrategy         `mapstructure:"s3" validate:"required_if=Strategy s3"`
}

type FilesystemMediaStrategy struct {
	Path        string `mapstructure:"path" validate:"required,abspath"`
	PublicUrl   string `mapstructure:"public_url" validate:"required,url"`
	PathPattern string `mapstructure:"path_pattern" validate:"pathpattern"`
}

type S3MediaStrategy struct {
	AccessKeyId string `mapstructure:"access_key_id" validate:"required"`
	SecretKeyId string `mapstructure:"secret_key_id" validate:"required"`
	Region      string `mapstructure:"region"`
	Bucket      string `mapstructure:"bucket" validate:"required"`
	Endpoint    string `mapstructure:"endpoint"`
	PublicUrl   string `mapstructure:"public_url" validate:"required,url"`
	PathPattern string `mapstructure:"path_pattern" validate:"pathpattern"`
}

type Manifest struct {
	Strategy string               `mapstructure:"strategy" validate:"required,oneof=noop sql"`
	SQL      *SQLManifestStrategy `mapstructure:"sql" validate:"required_if=Strategy sql"`
}

type SQLManifestStrategy struct {
	Driver      string  `mapstructure:"driver" validate:"required,oneof=postgres mysql"`
	// DSN is passed to the driver. For mysql, parseTime=true is always set.
	DSN         string  `mapstructure:"dsn" validate:"required"`
	TablePrefix *string `mapstructure:"table_prefix" validate:"omitempty,identifier"`
}
