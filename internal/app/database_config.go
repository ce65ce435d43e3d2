package app

import "github.com/jobportal/recruitment/internal/database"

// ConnectionConfig converts DatabaseConfig into database.Config.
func (c DatabaseConfig) ConnectionConfig() database.Config {
	options := map[string]string{}
	if c.Driver == "postgres" || c.Driver == "postgresql" {
		options["application_name"] = "job_portal"
	}

	return database.Config{
		Driver:   c.Driver,
		Path:     c.Path,
		DSN:      c.DSN,
		Host:     c.Host,
		Port:     c.Port,
		Name:     c.Name,
		User:     c.User,
		Password: c.Password,
		Options:  options,
		Pool: database.PoolConfig{
			MaxOpen:         c.Pool.MaxOpenConns,
			MaxIdle:         c.Pool.MaxIdleConns,
			ConnMaxLifetime: c.Pool.ConnMaxLifetime,
		},
		Retry: database.RetryConfig{
			Attempts: c.Retry.Attempts,
			Delay:    c.Retry.Delay,
		},
	}
}
