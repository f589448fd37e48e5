package hapi

import "fmt"

// PageSize caps the number of elements requested from the host in one call.
const PageSize int32 = 4000

func fetchPaged[T any](count, pageSize int32, fetch func(start, length int32) ([]T, error)) ([]T, error) {
	if pageSize < 1 {
		pageSize = 1
	}
	out := make([]T, 0, count)
	for start := int32(0); start < count; start += pageSize {
		length := pageSize
		if start+length > count {
			length = count - start
		}
		page, err := fetch(start, length)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
	}
	return out, nil
}

// GetInstanceTransforms fetches count point transforms, page by page.
func GetInstanceTransforms(host Host, assetID, objectID, geoID int32, order RSTOrder, count int32) ([]Transform, error) {
	transforms, err := fetchPaged(count, PageSize, func(start, length int32) ([]Transform, error) {
		return host.GetInstanceTransforms(assetID, objectID, geoID, order, start, length)
	})
	if err != nil {
		return nil, fmt.Errorf("get instance transforms of object %d: %w", objectID, err)
	}
	return transforms, nil
}

// GetFloatAttribute looks name up and, when it exists, returns its values
// flattened tuple by tuple.
func GetFloatAttribute(host Host, assetID, objectID, geoID, partID int32, name string) (AttributeInfo, []float32, error) {
	info, err := host.GetAttributeInfo(assetID, objectID, geoID, partID, name)
	if err != nil {
		return AttributeInfo{}, nil, fmt.Errorf("get attribute info %q: %w", name, err)
	}
	if !info.Exists {
		return info, nil, nil
	}
	tupleSize := info.TupleSize
	if tupleSize < 1 {
		tupleSize = 1
	}
	values, err := fetchPaged(info.Count, PageSize/tupleSize, func(start, length int32) ([]float32, error) {
		return host.GetAttributeFloatData(assetID, objectID, geoID, partID, name, start, length)
	})
	if err != nil {
		return info, nil, fmt.Errorf("get float attribute %q: %w", name, err)
	}
	return info, values, nil
}

// GetStringAttribute is GetFloatAttribute for string attributes. The values
// are string table handles, see Host.GetString.
func GetStringAttribute(host Host, assetID, objectID, geoID, partID int32, name string) (AttributeInfo, []int32, error) {
	info, err := host.GetAttributeInfo(assetID, objectID, geoID, partID, name)
	if err != nil {
		return AttributeInfo{}, nil, fmt.Errorf("get attribute info %q: %w", name, err)
	}
	if !info.Exists {
		return info, nil, nil
	}
	tupleSize := info.TupleSize
	if tupleSize < 1 {
		tupleSize = 1
	}
	values, err := fetchPaged(info.Count, PageSize/tupleSize, func(start, length int32) ([]int32, error) {
		return host.GetAttributeStrData(assetID, objectID, geoID, partID, name, start, length)
	})
	if err != nil {
		return info, nil, fmt.Errorf("get string attribute %q: %w", name, err)
	}
	return info, values, nil
}
