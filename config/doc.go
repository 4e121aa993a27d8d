// Package config loads service configuration with viper.
//
// Sources are layered in this order, later ones winning:
//
//  1. cmd/<service>/config.yml (or an explicit file)
//  2. a .env file next to it or at the repository root
//  3. process environment, where SECTION_KEY maps to section.key
//  4. aliases registered with WithEnvAliases, for deployments that still
//     export flat names such as DATABASE_URL
//
// Config structs embed ServiceConfig and implement ApplyDefaults/Validate.
package config
