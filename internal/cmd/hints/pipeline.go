package hints

// ImportToolURL is where exported CSV files are uploaded.
const ImportToolURL = "https://chromestatus.com/admin/features/bulk_edit"

// Pipeline suggests the next step of update, classify, serve, review, export.
func Pipeline(ctx Context) []*Hint {
	if !ctx.Succeeded {
		return nil
	}
	switch ctx.Command {
	case "update":
		return []*Hint{New("Catalogs refreshed. Classify the new entries next").WithCommand("mapreview classify")}
	case "classify":
		return []*Hint{New("Start the review server so the mappings can be reviewed").WithCommand("mapreview serve")}
	case "status":
		if ctx.Pending > 0 {
			return []*Hint{New("Mappings are waiting for a decision").WithCommand("mapreview review")}
		}
		return []*Hint{New("Every mapping is decided").WithCommand("mapreview export")}
	case "export":
		if ctx.Exported == 0 {
			return []*Hint{New("Accept some mappings first").WithCommand("mapreview review")}
		}
		return []*Hint{New("Upload the CSV with the chromestatus bulk edit tool").WithURL(ImportToolURL)}
	}
	return nil
}

// Default returns the registry used by the CLI.
func Default() *Registry {
	return NewRegistry(Pipeline)
}
