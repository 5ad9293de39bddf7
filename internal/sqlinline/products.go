package sqlinline

const QSelectActiveProducts = `--sql 5104a918-46eb-440d-ae0c-9050e8710412
select id, name, plan_type, price, duration_months, description, features, is_active
from products
where is_active
order by plan_type asc;
`

const QSelectProductByID = `--sql 3f7ad21c-90d4-4f2e-8a61-7be24c6d0a95
select id, name, plan_type, price, duration_months, description, features, is_active
from products
where id = $1::uuid and is_active
limit 1;
`

const QSearchProducts = `--sql 8cb01be6-a49c-43ce-9f5a-6dc1b241e0f5
select id, name, plan_type, price, duration_months, description, features, is_active
from products
where is_active and name ilike '%' || $1::text || '%'
order by plan_type asc;
`
