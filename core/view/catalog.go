package view

// Catalog returns the built-in texts per locale, keyed for i18n.WithTranslations.
func Catalog() map[string]map[string]any {
	return map[string]map[string]any{
		"es_ES": {
			"not_found": map[string]any{
				"title":   "Página no encontrada",
				"message": "La página que buscas no existe o ha sido movida.",
			},
			"not_authorized": map[string]any{
				"title":   "Acceso restringido",
				"message": "No tienes permisos para acceder a %{uri}.",
			},
			"setup": map[string]any{
				"title":  "Configuración inicial",
				"intro":  "Completa los siguientes parámetros para terminar la instalación.",
				"submit": "Guardar configuración",
				"saved":  "Configuración guardada.",
			},
		},
		"en_US": {
			"not_found": map[string]any{
				"title":   "Page not found",
				"message": "The page you are looking for does not exist or has been moved.",
			},
			"not_authorized": map[string]any{
				"title":   "Restricted access",
				"message": "You are not allowed to access %{uri}.",
			},
			"setup": map[string]any{
				"title":  "Initial setup",
				"intro":  "Fill in the following parameters to finish the installation.",
				"submit": "Save configuration",
				"saved":  "Configuration saved.",
			},
		},
	}
}
