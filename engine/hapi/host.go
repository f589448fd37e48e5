package hapi

// Host is the query surface of a procedural geometry host. Every call is a
// blocking round trip; implementations need not be safe for concurrent use.
type Host interface {
	GetObjects(assetID int32) ([]ObjectInfo, error)
	GetGeoInfo(assetID, objectID, geoID int32) (GeoInfo, error)
	GetPartInfo(assetID, objectID, geoID, partID int32) (PartInfo, error)
	// GetInstanceTransforms returns length transforms starting at point start.
	GetInstanceTransforms(assetID, objectID, geoID int32, order RSTOrder, start, length int32) ([]Transform, error)
	GetAttributeInfo(assetID, objectID, geoID, partID int32, name string) (AttributeInfo, error)
	// GetAttributeFloatData returns length tuples, flattened, starting at element start.
	GetAttributeFloatData(assetID, objectID, geoID, partID int32, name string, start, length int32) ([]float32, error)
	// GetAttributeStrData returns string table handles.
	GetAttributeStrData(assetID, objectID, geoID, partID int32, name string, start, length int32) ([]int32, error)
	GetString(handle int32) (string, error)
}
